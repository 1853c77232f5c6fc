package bridge

import (
	"sync"

	"github.com/antongulenko/optinit/ft260"
	log "github.com/sirupsen/logrus"
)

const (
	I2cWrite = iota + 1
	I2cRead
	I2cWriteRead
	I2cGet
)

// I2cRequest is one bus transaction, executed by the sequencer goroutine.
type I2cRequest struct {
	Type        int
	Addr        byte
	DataWrite   []byte
	DataRead    []byte
	GetRegister byte // Only for I2cGet
	GetSize     int  // Only for I2cGet
	Error       error

	done bool
	wait *sync.Cond
}

func (r *I2cRequest) init() {
	r.wait = &sync.Cond{L: new(sync.Mutex)}
}

func (r *I2cRequest) Wait() {
	r.wait.L.Lock()
	defer r.wait.L.Unlock()
	for !r.done {
		r.wait.Wait()
	}
}

func (r *I2cRequest) notifyDone() {
	r.wait.L.Lock()
	defer r.wait.L.Unlock()
	r.done = true
	r.wait.Broadcast()
}

// sequencedI2cBus funnels all transactions of concurrent users through one goroutine.
type sequencedI2cBus struct {
	bus      ft260.I2cBus
	i2cQueue chan *I2cRequest
	stopped  sync.WaitGroup
}

func startSequencer(bus ft260.I2cBus, queueSize int) *sequencedI2cBus {
	s := &sequencedI2cBus{
		bus:      bus,
		i2cQueue: make(chan *I2cRequest, queueSize),
	}
	s.stopped.Add(1)
	go s.handleI2cRequests()
	return s
}

// stop waits for all queued requests to finish. No further requests must be queued.
func (s *sequencedI2cBus) stop() {
	close(s.i2cQueue)
	s.stopped.Wait()
}

func (s *sequencedI2cBus) handleI2cRequests() {
	defer s.stopped.Done()
	for req := range s.i2cQueue {
		switch req.Type {
		case I2cWrite:
			req.Error = s.bus.I2cWrite(req.Addr, req.DataWrite...)
		case I2cRead:
			req.Error = s.bus.I2cRead(req.Addr, req.DataRead)
		case I2cWriteRead:
			req.Error = s.bus.I2cWriteRead(req.Addr, req.DataWrite, req.DataRead)
		case I2cGet:
			req.DataRead, req.Error = s.bus.I2cGet(req.Addr, req.GetRegister, req.GetSize)
		default:
			log.Errorln("Ignoring invalid I2C request with type", req.Type)
		}
		req.notifyDone()
	}
}

func (s *sequencedI2cBus) QueueI2cRequest(req *I2cRequest) {
	req.init()
	s.i2cQueue <- req
}

func (s *sequencedI2cBus) I2cRequest(req *I2cRequest) {
	s.QueueI2cRequest(req)
	req.Wait()
}

func (s *sequencedI2cBus) I2cWrite(addr byte, data ...byte) error {
	req := &I2cRequest{
		Type:      I2cWrite,
		Addr:      addr,
		DataWrite: data,
	}
	s.I2cRequest(req)
	return req.Error
}

func (s *sequencedI2cBus) I2cRead(addr byte, data []byte) error {
	req := &I2cRequest{
		Type:     I2cRead,
		Addr:     addr,
		DataRead: data,
	}
	s.I2cRequest(req)
	return req.Error
}

func (s *sequencedI2cBus) I2cWriteRead(addr byte, out, in []byte) error {
	req := &I2cRequest{
		Type:      I2cWriteRead,
		Addr:      addr,
		DataRead:  in,
		DataWrite: out,
	}
	s.I2cRequest(req)
	return req.Error
}

func (s *sequencedI2cBus) I2cGet(addr byte, registerAddr byte, size int) ([]byte, error) {
	req := &I2cRequest{
		Type:        I2cGet,
		Addr:        addr,
		GetRegister: registerAddr,
		GetSize:     size,
	}
	s.I2cRequest(req)
	return req.DataRead, req.Error
}

func (s *sequencedI2cBus) Tx(addr uint16, w, r []byte) error {
	return s.I2cWriteRead(byte(addr), w, r)
}
