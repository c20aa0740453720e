package cmd

import (
	"fmt"

	"github.com/ostafen/digler/internal/jhove/config"
	"github.com/ostafen/digler/internal/jhove/dispatch"
	"github.com/ostafen/digler/internal/jhove/epub"
	"github.com/ostafen/digler/internal/jhove/jpeg"
	"github.com/ostafen/digler/internal/jhove/module"
	"github.com/ostafen/digler/internal/jhove/tiff"
)

// buildDispatcher registers every module named in cfg against a fresh
// Dispatcher. Unknown module names are rejected rather than silently
// skipped, since a config typo should surface immediately rather than
// quietly narrow which formats a run can recognize.
func buildDispatcher(cfg *config.Config, opts module.Options) (*dispatch.Dispatcher, error) {
	d := dispatch.New(opts)

	for _, mc := range cfg.Modules {
		switch mc.Name {
		case "TIFF-hul":
			d.RegisterRandomAccess(tiff.New())
		case "JPEG-hul":
			d.RegisterRandomAccess(jpeg.New())
		case "EPUB-ptc":
			d.RegisterSequential(epub.New())
		default:
			return nil, fmt.Errorf("jhovego: unknown module %q in configuration", mc.Name)
		}
		if mc.Parameters != "" {
			d.SetModuleParameters(mc.Name, mc.Parameters)
		}
	}

	return d, nil
}
