package regfile

import (
	"fmt"

	"github.com/antongulenko/optinit/regplan"
	log "github.com/sirupsen/logrus"
)

// Logged logs every access to the wrapped register file.
type Logged struct {
	regplan.RegisterFile
	Name  string
	Level log.Level // Defaults to log.PanicLevel, which is treated as log.InfoLevel
}

func (l *Logged) entry(addr regplan.Address, value regplan.Word) *log.Entry {
	return log.WithFields(log.Fields{
		"registers": l.Name,
		"address":   addr,
		"value":     fmt.Sprintf("%#x", uint32(value)),
	})
}

func (l *Logged) level() log.Level {
	if l.Level == log.PanicLevel {
		return log.InfoLevel
	}
	return l.Level
}

func (l *Logged) ReadRegister(addr regplan.Address) (regplan.Word, error) {
	val, err := l.RegisterFile.ReadRegister(addr)
	if err != nil {
		l.entry(addr, 0).WithError(err).Errorln("Register read failed")
	} else {
		l.entry(addr, val).Logln(l.level(), "Read register")
	}
	return val, err
}

func (l *Logged) WriteRegister(addr regplan.Address, value regplan.Word) error {
	err := l.RegisterFile.WriteRegister(addr, value)
	if err != nil {
		l.entry(addr, value).WithError(err).Errorln("Register write failed")
	} else {
		l.entry(addr, value).Logln(l.level(), "Wrote register")
	}
	return err
}
