package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cecinput/cecinput/internal/configpaths"
	"github.com/cecinput/cecinput/keymap"
)

// KeymapCommand groups key map subcommands.
type KeymapCommand struct {
	Init  KeymapInit  `cmd:"" help:"Write the built-in key map as an override file"`
	Check KeymapCheck `cmd:"" help:"Load an override file and show what it changes"`
	Names KeymapNames `cmd:"" help:"List remote and output key names"`
}

type KeymapInit struct {
	Output string `arg:"" optional:"" help:"Destination file" default:"keymap.conf"`
	Force  bool   `help:"Overwrite if the file already exists"`
}

func (k *KeymapInit) Run(logger *slog.Logger) error {
	if !k.Force {
		if _, err := os.Stat(k.Output); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}
	if err := configpaths.EnsureDir(k.Output); err != nil {
		return err
	}
	f, err := os.Create(k.Output)
	if err != nil {
		return err
	}
	if err := keymap.WriteOverride(f, keymap.Default(), keymap.NewNames()); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("Key map written", "path", k.Output)
	return nil
}

type KeymapCheck struct {
	File string `arg:"" type:"existingfile" help:"Override file to check"`
}

func (k *KeymapCheck) Run(logger *slog.Logger) error {
	names := keymap.NewNames()
	t, err := keymap.LoadOverride(k.File, names, logger)
	if err != nil {
		return err
	}
	return writeKeymapDiff(os.Stdout, keymap.Default(), t, names)
}

// writeKeymapDiff lists the remote keys whose mapping differs between a and b.
func writeKeymapDiff(w io.Writer, a, b *keymap.Table, names *keymap.Names) error {
	changed := 0
	for _, name := range names.RemoteNames() {
		code, _ := names.Remote(name)
		ca, _ := a.Lookup(code)
		cb, _ := b.Lookup(code)
		if ca == cb {
			continue
		}
		changed++
		if _, err := fmt.Fprintf(w, "%-16s %s -> %s\n", name, ca, cb); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d key(s) changed\n", changed)
	return err
}

type KeymapNames struct{}

func (k *KeymapNames) Run() error {
	names := keymap.NewNames()
	fmt.Println("Remote keys:")
	for _, n := range names.RemoteNames() {
		fmt.Println("  " + n)
	}
	fmt.Println("Output keys:")
	for _, k := range names.OutputKeys() {
		n, _ := names.OutputName(k)
		fmt.Printf("  %-16s %s\n", n, k)
	}
	return nil
}
