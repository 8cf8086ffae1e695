// Command emu is the CLI entry point for the RV64IMA emulator core: it
// loads a raw kernel binary (and optional disk image) into byte
// vectors, wires up the hart and its devices, and drives the
// fetch-execute step loop until the hart halts. Loading, flag parsing
// and terminal setup are the thin "external collaborator" glue named
// out of scope by §1; the engine itself lives in internal/riscv.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/bassosimone/rv64emu/internal/riscv"
)

// machineConfig is the optional `emu.yaml` machine-description file
// consumed by this command only; the riscv package stays
// config-format-agnostic and takes plain Go values.
type machineConfig struct {
	DramSize uint64 `yaml:"dram_size"`
	Trace    bool   `yaml:"trace"`
}

func main() {
	debug := flag.BoolP("debug", "d", false, "pause for input before each instruction")
	verbose := flag.BoolP("verbose", "v", false, "trace every instruction to stderr")
	rawTTY := flag.Bool("raw-tty", true, "put the controlling terminal into raw mode for UART passthrough")
	configPath := flag.StringP("config", "c", "", "optional YAML machine-description file")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if *verbose {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: emu [flags] <kernel.bin> [disk.img]")
		os.Exit(1)
	}

	cfg := machineConfig{DramSize: riscv.DramSize}
	if *configPath != "" {
		if err := loadConfig(*configPath, &cfg); err != nil {
			log.Error().Err(err).Msg("emu: failed to load config")
			os.Exit(1)
		}
		if cfg.Trace {
			log = log.Level(zerolog.DebugLevel)
		}
	}

	code, err := readFileWithProgress(flag.Arg(0))
	if err != nil {
		log.Error().Err(err).Msg("emu: failed to read kernel image")
		os.Exit(1)
	}

	var disk []byte
	if flag.NArg() > 1 {
		disk, err = readFileWithProgress(flag.Arg(1))
		if err != nil {
			log.Error().Err(err).Msg("emu: failed to read disk image")
			os.Exit(1)
		}
	}

	restore := maybeEnableRawMode(*rawTTY, log)
	defer restore()

	dram := riscv.NewDram(cfg.DramSize, code)
	clint := riscv.NewClint()
	plic := riscv.NewPlic()
	uart := riscv.NewUart(os.Stdin, os.Stdout, log)
	virtio := riscv.NewVirtioMMIO(disk)
	bus := riscv.NewBus(dram, clint, plic, uart, virtio)
	hart := riscv.NewHart(bus, log)

	for !hart.Halted {
		if *debug {
			log.Debug().Str("pc", fmt.Sprintf("%#x", hart.PC)).Msg("emu: paused")
			fmt.Fscanln(os.Stdin)
		}
		if err := hart.Step(); err != nil {
			log.Error().Err(err).Msg("emu: fatal trap")
			fmt.Fprint(os.Stderr, hart.DumpRegisters())
			os.Exit(1)
		}
	}

	fmt.Fprint(os.Stderr, hart.DumpRegisters())
	os.Exit(0)
}

// readFileWithProgress reads the named file, showing a progress bar
// for files large enough that doing so is informative, matching the
// way tinyrange-cc/cmd/cc reports image-fetch progress.
func readFileWithProgress(path string) ([]byte, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "emu: opening %s", path)
	}
	defer fp.Close()

	info, err := fp.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "emu: stat %s", path)
	}

	const progressThreshold = 4 * 1024 * 1024
	if info.Size() < progressThreshold {
		data, err := io.ReadAll(fp)
		if err != nil {
			return nil, errors.Wrapf(err, "emu: reading %s", path)
		}
		return data, nil
	}

	bar := progressbar.DefaultBytes(info.Size(), "loading "+path)
	buf := make([]byte, info.Size())
	if _, err := io.CopyBuffer(io.MultiWriter(&sliceWriter{buf: buf}, bar), fp, make([]byte, 32*1024)); err != nil {
		return nil, errors.Wrapf(err, "emu: reading %s", path)
	}
	return buf, nil
}

// sliceWriter copies into a fixed backing slice as io.CopyBuffer
// drains the reader, tracking how much has been written so far. Needs
// a pointer receiver: io.MultiWriter stores the Writer value it's
// given, so a value receiver would only ever advance a per-call copy
// of buf and every chunk after the first would land back at offset 0.
type sliceWriter struct {
	buf []byte
}

func (w *sliceWriter) Write(p []byte) (int, error) {
	n := copy(w.buf, p)
	w.buf = w.buf[n:]
	return n, nil
}

func loadConfig(path string, cfg *machineConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "emu: reading config %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "emu: parsing config %s", path)
	}
	if cfg.DramSize == 0 {
		cfg.DramSize = riscv.DramSize
	}
	return nil
}

// maybeEnableRawMode puts the controlling terminal into raw mode so
// the UART's stdin passthrough sees unbuffered, unechoed keystrokes,
// as xv6's console expects. Returns a restore function safe to call
// even when raw mode was never entered (not a terminal, or disabled).
func maybeEnableRawMode(enabled bool, log zerolog.Logger) func() {
	if !enabled || !term.IsTerminal(int(os.Stdin.Fd())) {
		return func() {}
	}
	state, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		log.Warn().Err(err).Msg("emu: could not enable raw terminal mode")
		return func() {}
	}
	return func() {
		_ = term.Restore(int(os.Stdin.Fd()), state)
	}
}
