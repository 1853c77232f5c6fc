package regplan

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// RegisterFile gives word access to registers.
type RegisterFile interface {
	ReadRegister(addr Address) (Word, error)
	WriteRegister(addr Address, value Word) error
}

// Presumed knows the content of registers without reading them,
// typically the reset values right after power-up.
type Presumed interface {
	PresumedValue(addr Address) (Word, bool)
}

// PresumedValues is a fixed table of presumed register contents.
type PresumedValues map[Address]Word

func (p PresumedValues) PresumedValue(addr Address) (Word, bool) {
	val, ok := p[addr]
	return val, ok
}

// Executor applies plans to a register file.
type Executor struct {
	Registers RegisterFile

	// If set, Lock is held for the duration of every single read-modify-write cycle.
	// Use it when other goroutines (or interrupt handlers) can touch the same registers.
	Lock sync.Locker
}

// Execute performs one read-modify-write cycle per planned write, in plan order.
// It stops at the first failing register access.
func (e *Executor) Execute(plan Plan) error {
	for _, w := range plan {
		if err := e.modify(w); err != nil {
			return err
		}
	}
	return nil
}

// Initialize performs one plain write per planned write, computed from the presumed
// register content instead of reading the register first. Registers without a
// presumed value are modified with a regular read-modify-write cycle.
func (e *Executor) Initialize(plan Plan, presumed Presumed) error {
	for _, w := range plan {
		current, ok := presumed.PresumedValue(w.Address)
		if !ok {
			log.Debugf("No presumed value for register %v, falling back to read-modify-write", w.Address)
			if err := e.modify(w); err != nil {
				return err
			}
			continue
		}
		if err := e.store(w, current); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) modify(w Modification) error {
	if e.Lock != nil {
		e.Lock.Lock()
		defer e.Lock.Unlock()
	}
	current, err := e.Registers.ReadRegister(w.Address)
	if err != nil {
		return fmt.Errorf("Failed to read register %v: %v", w.Address, err)
	}
	return e.write(w, current)
}

func (e *Executor) store(w Modification, presumed Word) error {
	if e.Lock != nil {
		e.Lock.Lock()
		defer e.Lock.Unlock()
	}
	return e.write(w, presumed)
}

func (e *Executor) write(w Modification, current Word) error {
	next := w.Apply(current)
	log.WithFields(log.Fields{
		"address": w.Address,
		"mask":    fmt.Sprintf("%#x", uint32(w.Mask)),
		"value":   fmt.Sprintf("%#x", uint32(w.Bits())),
		"before":  fmt.Sprintf("%#x", uint32(current)),
		"after":   fmt.Sprintf("%#x", uint32(next)),
	}).Debugln("Writing register")
	if err := e.Registers.WriteRegister(w.Address, next); err != nil {
		return fmt.Errorf("Failed to write register %v: %v", w.Address, err)
	}
	return nil
}

// Execute applies plan to regs, one read-modify-write cycle per address.
func Execute(regs RegisterFile, plan Plan) error {
	e := Executor{Registers: regs}
	return e.Execute(plan)
}

// Apply plans the given items and executes the plan on regs. Nothing is written
// before the whole plan has been computed.
func Apply(regs RegisterFile, items ...Item) error {
	return Execute(regs, PlanOf(items...))
}
