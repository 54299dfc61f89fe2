package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gosimple/slug"
	"github.com/spf13/cobra"

	"github.com/VladmirB/sigmah/internal/handler"
	"github.com/VladmirB/sigmah/internal/indicator"
	"github.com/VladmirB/sigmah/internal/render"
	"github.com/VladmirB/sigmah/internal/report"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	User int
	As   string
	Out  string
}

// NewRenderCommand creates the render command.
func NewRenderCommand(root *RootOptions) *cobra.Command {
	opts := &RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render <definition>",
		Short: "Render a report definition to PDF, RTF or trace",
		Long: `Render a YAML (.yaml, .yml) or CUE (.cue) report definition.

Table elements are filled by querying the database as --user. The output
file defaults to <report.output_dir>/<title-slug>.<ext>; use --out - for
stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().IntVarP(&opts.User, "user", "u", 0, "id of the user the tables are queried as (required)")
	cmd.Flags().StringVar(&opts.As, "as", "", "output format: pdf, rtf or trace (default report.format)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file")
	cmd.MarkFlagRequired("user")

	return cmd
}

type renderResult struct {
	Definition string `json:"definition"`
	Title      string `json:"title"`
	Format     string `json:"format"`
	Path       string `json:"path"`
	Elements   int    `json:"elements"`
	Bytes      int    `json:"bytes"`
}

func (r renderResult) renderText(s styles) string {
	return fmt.Sprintf("%s rendered %q to %s %s", symbolPass, r.Title, s.accent(r.Path),
		s.muted(fmt.Sprintf("(%s, %d elements, %d bytes)", r.Format, r.Elements, r.Bytes)))
}

func runRender(cmd *cobra.Command, root *RootOptions, opts *RenderOptions, path string) error {
	cfg := root.cfg()
	formatName := opts.As
	if formatName == "" {
		formatName = cfg.Report.Format
	}
	format, err := render.ParseFormat(formatName)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --as", err)
	}

	def, err := report.LoadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load report definition", err)
	}

	st, err := root.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	user, err := st.FindUser(ctx, opts.User)
	if err != nil {
		return WrapExitError(ExitCommandError, "unknown user", err)
	}

	names, err := report.LoadNames(ctx, st, def.Filter)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load filter names", err)
	}
	rep, err := def.Build(names)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid report definition", err)
	}

	indicators, err := indicator.NewService(st, cfg.Query.IndicatorCacheSize)
	if err != nil {
		return err
	}
	sites := handler.NewGetSitesHandler(st.Sites(), indicators, handler.WithMaxLimit(cfg.Query.MaxLimit))
	if err := report.NewGenerator(sites, indicators, st).Generate(ctx, user, rep); err != nil {
		return WrapExitError(ExitFailure, "failed to generate report", err)
	}

	var buf bytes.Buffer
	if err := render.NewRenderer(format).Render(ctx, rep, &buf); err != nil {
		return WrapExitError(ExitFailure, "failed to render report", err)
	}

	out := opts.Out
	if out == "" {
		out = filepath.Join(cfg.Report.OutputDir, reportFileName(rep.Title, format))
	}
	if out == "-" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return WrapExitError(ExitCommandError, "failed to write report", err)
	}

	return root.formatter(cmd).Success(renderResult{
		Definition: path,
		Title:      rep.Title,
		Format:     format.Name(),
		Path:       out,
		Elements:   len(rep.Elements),
		Bytes:      buf.Len(),
	})
}

// reportFileName derives the default file name from the report title.
func reportFileName(title string, format render.Format) string {
	name := slug.Make(title)
	if name == "" {
		name = "report"
	}
	return name + "." + format.Extension()
}
