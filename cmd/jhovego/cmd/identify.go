// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package cmd

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/ostafen/digler/internal/env"
	"github.com/ostafen/digler/internal/jhove/checksum"
	"github.com/ostafen/digler/internal/jhove/config"
	"github.com/ostafen/digler/internal/jhove/handler"
	"github.com/ostafen/digler/internal/jhove/log"
	"github.com/ostafen/digler/internal/jhove/module"
	"github.com/ostafen/digler/pkg/dfxmlhandler"
	"github.com/ostafen/digler/pkg/jsonhandler"
	"github.com/ostafen/digler/pkg/texthandler"
)

func DefineIdentifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "identify <path>...",
		Short:        "Identify, validate and characterize one or more files or directories",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         RunIdentify,
	}

	cmd.Flags().StringP("handler", "H", "", "output handler: text, xml or json (overrides config)")
	cmd.Flags().StringP("output", "o", "", "write the report to this file instead of stdout")
	cmd.Flags().StringP("config", "c", "", "path to a jhove-go YAML configuration file")
	cmd.Flags().Bool("raw", false, "emit bitfield/enumeration properties as raw integers")
	cmd.Flags().Bool("verbose", false, "include low-level segment detail in the property tree")
	cmd.Flags().StringSlice("checksum", nil, "digests to compute per file: crc32, md5, sha1, sha256")
	cmd.Flags().String("epub-validator", "", "path to an EPUBCheck-compatible validator executable")
	cmd.Flags().Bool("mount", false, "treat each path as a raw disk image and FUSE-mount it read-only before characterizing it (Linux only)")
	cmd.Flags().Bool("mmap", false, "memory-map each path instead of reading it through syscalls, for very large files")
	cmd.Flags().Bool("progress", false, "log one line per file to stderr as the sweep proceeds")
	cmd.Flags().String("log", "", "write structured per-file diagnostics (module, path, elapsed, error) to this file")
	cmd.Flags().String("log-level", "INFO", "minimum level for --log: DEBUG, INFO, WARN or ERROR")

	return cmd
}

func RunIdentify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	raw, _ := cmd.Flags().GetBool("raw")
	verbose, _ := cmd.Flags().GetBool("verbose")
	validator, _ := cmd.Flags().GetString("epub-validator")

	opts := module.Options{
		Raw:     raw,
		Verbose: verbose,
		Abort:   &atomic.Bool{},
	}

	d, err := buildDispatcher(cfg, opts)
	if err != nil {
		return err
	}
	if validator != "" {
		d.SetModuleParameters("EPUB-ptc", validator)
	}

	if algs, err := parseChecksumAlgorithms(cmd); err != nil {
		return err
	} else {
		d.Checksums = algs
	}

	if showProgress, _ := cmd.Flags().GetBool("progress"); showProgress {
		d.Progress = log.NewProgress(os.Stderr, log.InfoLevel)
	}

	if logPath, _ := cmd.Flags().GetString("log"); logPath != "" {
		logLevel, _ := cmd.Flags().GetString("log-level")
		logger, logFile, err := log.New(logPath, log.ParseSlogLevel(logLevel))
		if err != nil {
			return err
		}
		if logFile != nil {
			defer logFile.Close()
		}
		d.Logger = logger
	}

	out, closeOut, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeOut()

	h, err := buildHandler(cmd, cfg, out)
	if err != nil {
		return err
	}
	defer h.Close()

	if err := h.ShowHeader(); err != nil {
		return err
	}
	if err := h.ShowApp(env.AppName, env.Version, env.BuildTime); err != nil {
		return err
	}
	for _, desc := range d.Descriptors() {
		if err := h.ShowModule(desc); err != nil {
			return err
		}
	}

	useMount, _ := cmd.Flags().GetBool("mount")
	useMmap, _ := cmd.Flags().GetBool("mmap")

	for _, path := range args {
		if useMount {
			if err := identifyMounted(d, path, h); err != nil {
				return fmt.Errorf("jhovego: %s: %w", path, err)
			}
			continue
		}
		if useMmap {
			if err := identifyMmapped(d, path, h); err != nil {
				return fmt.Errorf("jhovego: %s: %w", path, err)
			}
			continue
		}
		if err := d.Sweep(path, h); err != nil {
			return fmt.Errorf("jhovego: %s: %w", path, err)
		}
	}

	return h.ShowFooter()
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func parseChecksumAlgorithms(cmd *cobra.Command) ([]checksum.Algorithm, error) {
	names, _ := cmd.Flags().GetStringSlice("checksum")
	algs := make([]checksum.Algorithm, 0, len(names))
	for _, n := range names {
		switch n {
		case "crc32":
			algs = append(algs, checksum.CRC32)
		case "md5":
			algs = append(algs, checksum.MD5)
		case "sha1":
			algs = append(algs, checksum.SHA1)
		case "sha256":
			algs = append(algs, checksum.SHA256)
		default:
			return nil, fmt.Errorf("jhovego: unknown checksum algorithm %q", n)
		}
	}
	return algs, nil
}

func openOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func buildHandler(cmd *cobra.Command, cfg *config.Config, w io.Writer) (handler.Handler, error) {
	name, _ := cmd.Flags().GetString("handler")
	if name == "" {
		name = cfg.DefaultHandler
	}
	switch name {
	case "text", "":
		return texthandler.New(w), nil
	case "xml":
		return dfxmlhandler.New(w), nil
	case "json":
		return jsonhandler.New(w), nil
	default:
		return nil, fmt.Errorf("jhovego: unknown handler %q", name)
	}
}
