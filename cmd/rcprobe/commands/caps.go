package commands

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/gogpu/rendercore/frustum"
	"github.com/gogpu/rendercore/shaders"
)

func newCapsCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "caps",
		Short: "Show the selected shader provider",
		Long: `Open the configured compat modules, select the shader provider
and print what it reports.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCaps(cmd.OutOrStdout(), cfg.Shaders)
		},
	}
	cmd.Flags().String("primary-package", "", "package path of the primary extension")
	cmd.Flags().String("compat-module", "", "module id of the compat extension")
	cmd.Flags().StringToString("module", nil, "open a Go plugin as a module (id=path)")
	return cmd
}

func runCaps(w io.Writer, cfg ShadersConfig) error {
	ids := make([]string, 0, len(cfg.Modules))
	for id := range cfg.Modules {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if err := shaders.OpenModule(id, cfg.Modules[id]); err != nil {
			return err
		}
	}

	shaders.Init(cfg.options()...)
	h := shaders.Default()

	loaded := shaders.LoadedModules()
	modules := "none"
	if len(loaded) > 0 {
		modules = strings.Join(loaded, ", ")
	}

	shadow := "absent"
	cam := frustum.NewCamera(mgl64.Vec3{})
	if f := h.CreateShadowFrustum(cam, 0); f.Specified {
		shadow = fmt.Sprintf("%T", f.Value)
	}

	fmt.Fprintf(w, "provider:           %s\n", h.Kind())
	fmt.Fprintf(w, "primary installed:  %t\n", h.IsPrimaryInstalled())
	fmt.Fprintf(w, "compat loaded:      %t\n", h.IsCompatLoaded())
	fmt.Fprintf(w, "shader pack in use: %t\n", h.IsShaderPackInUse())
	fmt.Fprintf(w, "shadow pass:        %t\n", h.IsRenderingShadowPass())
	fmt.Fprintf(w, "shadow frustum:     %s\n", shadow)
	fmt.Fprintf(w, "modules:            %s\n", modules)
	return nil
}
