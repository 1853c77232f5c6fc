package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/antongulenko/golib"
	"github.com/antongulenko/optinit/codegen"
	"github.com/antongulenko/optinit/config"
	"github.com/antongulenko/optinit/regplan"
	log "github.com/sirupsen/logrus"
)

var (
	configFile  = ""
	outputFile  = ""
	packageName = "main"
	target      = string(codegen.TargetVolatile)
	strict      = false
)

func main() {
	flag.StringVar(&configFile, "config", configFile, "YAML register layout with named settings")
	flag.StringVar(&outputFile, "out", outputFile, "Output file (default: stdout)")
	flag.StringVar(&packageName, "package", packageName, "Package name of the generated file")
	flag.StringVar(&target, "target", target, fmt.Sprintf("Code generation target, one of: %v", codegen.Targets))
	flag.BoolVar(&strict, "strict", strict, "Fail on overlapping modifications instead of letting the later one win")
	golib.RegisterLogFlags()
	flag.Parse()
	golib.ConfigureLogging()
	golib.Checkerr(doMain())
}

func doMain() error {
	if configFile == "" {
		return fmt.Errorf("Need -config")
	}
	layout, err := config.Load(configFile)
	if err != nil {
		return err
	}
	src, err := generate(layout, flag.Args())
	if err != nil {
		return err
	}
	if outputFile == "" {
		_, err = os.Stdout.Write(src)
		return err
	}
	log.Printf("Writing %v byte to %v", len(src), outputFile)
	return os.WriteFile(outputFile, src, 0644)
}

// generate emits one function per named setting, or for all settings if names is empty.
func generate(layout *config.Layout, names []string) ([]byte, error) {
	t, err := codegen.ParseTarget(target)
	if err != nil {
		return nil, err
	}
	widths := make(map[regplan.Address]uint)
	for _, reg := range layout.AllRegisters() {
		widths[reg.Address] = reg.Bits()
	}
	gen := &codegen.Generator{
		Package: packageName,
		Target:  t,
		Width:   func(addr regplan.Address) uint { return widths[addr] },
	}
	if len(names) == 0 {
		names = layout.SettingNames()
	}
	for _, name := range names {
		group, err := layout.Setting(name)
		if err != nil {
			return nil, err
		}
		plan := group.Plan()
		if strict {
			if plan, err = regplan.PlanStrict(group); err != nil {
				return nil, fmt.Errorf("Setting %v: %v", name, err)
			}
		}
		log.Debugf("Setting %v: %v", name, strings.ReplaceAll(plan.String(), "\n", "; "))
		if err := gen.Add(name, plan); err != nil {
			return nil, err
		}
	}
	return gen.Generate()
}
