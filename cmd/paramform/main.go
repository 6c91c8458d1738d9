package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-paramform"
	"github.com/goliatone/go-paramform/pkg/config"
	"github.com/goliatone/go-paramform/pkg/model"
	"github.com/goliatone/go-paramform/pkg/openapi"
	"github.com/goliatone/go-paramform/pkg/orchestrator"
	"github.com/goliatone/go-paramform/pkg/parser"
	"github.com/goliatone/go-paramform/pkg/prompt"
	"github.com/goliatone/go-paramform/pkg/render"
	"github.com/goliatone/go-paramform/pkg/schema"
	"github.com/goliatone/go-paramform/pkg/submit"
)

const usage = `usage: paramform <command> [flags]

commands:
  describe   print the parameters of an analysis (text, json or yaml)
  payload    apply configured values and print the run payload
  prompt     edit values interactively and print the run payload
  submit     apply values and submit the analysis to the server
  openapi    print the OpenAPI description of the run endpoint
`

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "describe":
		err = runDescribe(ctx, args)
	case "payload":
		err = runPayload(ctx, args)
	case "prompt":
		err = runPrompt(ctx, args)
	case "submit":
		err = runSubmit(ctx, args)
	case "openapi":
		err = runOpenAPI(ctx, args)
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	var invalid *model.ValidationError
	switch {
	case err == nil:
	case errors.Is(err, prompt.ErrAborted):
		os.Exit(130)
	case errors.As(err, &invalid):
		log.Fatalf("invalid parameters: %s", strings.Join(invalid.Titles, ", "))
	default:
		log.Fatalf("paramform: %v", err)
	}
}

// common holds the flags every command shares. Flags override the config file.
type common struct {
	configPath string
	schemaPath string
	task       string
	server     string
	token      string
	preset     string
	timeout    time.Duration
	verbose    bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "configuration file (YAML or JSON)")
	fs.StringVar(&c.schemaPath, "schema", "", "description path or URL; fetched from the server task when empty")
	fs.StringVar(&c.task, "task", "", "analysis task path, e.g. slicer_cli_web/image/Threshold")
	fs.StringVar(&c.server, "server", "", "job server API root")
	fs.StringVar(&c.token, "token", "", "authentication token sent as Girder-Token")
	fs.StringVar(&c.preset, "preset", "", "JSON preset overriding labels, defaults and panels")
	fs.DurationVar(&c.timeout, "timeout", 0, "request timeout")
	fs.BoolVar(&c.verbose, "v", false, "log diagnostics to stderr")
}

func (c *common) resolve() (*config.Config, error) {
	cfg := &config.Config{}
	if c.configPath != "" {
		loaded, err := config.Load(c.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	return cfg.Merge(config.Config{
		Server:  config.Server{URL: c.server, Token: c.token},
		Task:    strings.Trim(c.task, "/"),
		Schema:  c.schemaPath,
		Preset:  c.preset,
		Timeout: c.timeout,
	}), nil
}

func (c *common) logger() *slog.Logger {
	if !c.verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// session loads the analysis named by cfg and applies its prefill values.
func session(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*orchestrator.Orchestrator, error) {
	options := []orchestrator.Option{
		orchestrator.WithLogger(logger),
		orchestrator.WithParser(paramform.NewParser(parser.WithLogger(logger))),
	}

	if cfg.Preset != "" {
		dir, name := filepath.Split(cfg.Preset)
		if dir == "" {
			dir = "."
		}
		preset, err := orchestrator.NewPresetTransformerFromFS(os.DirFS(dir), name)
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithTransformer(preset))
	}

	if cfg.Server.URL != "" {
		client, err := submit.New(cfg.Server.URL,
			submit.WithToken(cfg.Server.Token),
			submit.WithTimeout(cfg.Timeout),
			submit.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithClient(client))
	}

	o := orchestrator.New(options...)
	switch {
	case cfg.Schema != "":
		if err := o.Load(ctx, cfg.Task, schema.Detect(cfg.Schema)); err != nil {
			return nil, err
		}
	case cfg.Task != "" && cfg.Server.URL != "":
		if err := o.SetAnalysis(ctx, cfg.Task); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("a -schema or a -server and -task pair is required")
	}

	if unknown := o.Apply(cfg.Values); len(unknown) > 0 {
		logger.Warn("ignoring values for unknown parameters", "ids", unknown)
	}
	return o, nil
}

func runDescribe(ctx context.Context, args []string) error {
	var (
		flags    common
		format   string
		advanced bool
		hidden   bool
		output   string
	)
	fs := flag.NewFlagSet("describe", flag.ExitOnError)
	flags.register(fs)
	fs.StringVar(&format, "format", "text", "output format: text, json or yaml")
	fs.BoolVar(&advanced, "advanced", true, "include advanced panels")
	fs.BoolVar(&hidden, "hidden", false, "include hidden parameters")
	fs.StringVar(&output, "output", "", "output file (stdout if empty)")
	_ = fs.Parse(args)

	cfg, err := flags.resolve()
	if err != nil {
		return err
	}
	o, err := session(ctx, cfg, flags.logger())
	if err != nil {
		return err
	}
	registry, err := paramform.NewRenderRegistry()
	if err != nil {
		return err
	}
	out, err := registry.Render(ctx, format, o.Executable(), render.RenderOptions{
		Params:     o,
		Advanced:   advanced,
		ShowHidden: hidden,
	})
	if err != nil {
		return err
	}
	return write(output, out)
}

func runPayload(ctx context.Context, args []string) error {
	var (
		flags  common
		format string
	)
	fs := flag.NewFlagSet("payload", flag.ExitOnError)
	flags.register(fs)
	fs.StringVar(&format, "format", "form", "output format: form or json")
	_ = fs.Parse(args)

	cfg, err := flags.resolve()
	if err != nil {
		return err
	}
	o, err := session(ctx, cfg, flags.logger())
	if err != nil {
		return err
	}
	if err := o.Validate(); err != nil {
		return err
	}
	return printPayload(o.Parameters(), format)
}

func runPrompt(ctx context.Context, args []string) error {
	var (
		flags       common
		format      string
		advanced    bool
		onlyInvalid bool
	)
	fs := flag.NewFlagSet("prompt", flag.ExitOnError)
	flags.register(fs)
	fs.StringVar(&format, "format", "form", "output format: form or json")
	fs.BoolVar(&advanced, "advanced", false, "edit advanced panels without asking")
	fs.BoolVar(&onlyInvalid, "only-invalid", false, "only ask for values that are missing or invalid")
	_ = fs.Parse(args)

	cfg, err := flags.resolve()
	if err != nil {
		return err
	}
	logger := flags.logger()
	o, err := session(ctx, cfg, logger)
	if err != nil {
		return err
	}

	editor := prompt.New(
		prompt.WithAdvanced(advanced),
		prompt.WithOnlyInvalid(onlyInvalid),
		prompt.WithLogger(logger),
	)
	if err := editor.Edit(ctx, o); err != nil {
		return err
	}
	if err := o.Validate(); err != nil {
		return err
	}
	return printPayload(o.Parameters(), format)
}

func runSubmit(ctx context.Context, args []string) error {
	var (
		flags       common
		interactive bool
	)
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	flags.register(fs)
	fs.BoolVar(&interactive, "interactive", false, "prompt for missing or invalid values before submitting")
	_ = fs.Parse(args)

	cfg, err := flags.resolve()
	if err != nil {
		return err
	}
	if cfg.Server.URL == "" || cfg.Task == "" {
		return errors.New("submit needs a server url and a task")
	}
	logger := flags.logger()
	o, err := session(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if interactive {
		editor := prompt.New(prompt.WithOnlyInvalid(true), prompt.WithAdvanced(true), prompt.WithLogger(logger))
		if err := editor.Edit(ctx, o); err != nil {
			return err
		}
	}

	job, err := o.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("job %s %s\n", job.ID, job.Status)
	return nil
}

func runOpenAPI(ctx context.Context, args []string) error {
	var (
		flags  common
		title  string
		output string
	)
	fs := flag.NewFlagSet("openapi", flag.ExitOnError)
	flags.register(fs)
	fs.StringVar(&title, "title", "", "document title (defaults to the analysis title)")
	fs.StringVar(&output, "output", "", "output file (stdout if empty)")
	_ = fs.Parse(args)

	cfg, err := flags.resolve()
	if err != nil {
		return err
	}
	if cfg.Task == "" {
		return errors.New("openapi needs a -task to name the endpoint")
	}
	o, err := session(ctx, cfg, flags.logger())
	if err != nil {
		return err
	}

	var options []openapi.Option
	if cfg.Server.URL != "" {
		options = append(options, openapi.WithServer(cfg.Server.URL))
	}
	if title != "" {
		options = append(options, openapi.WithTitle(title))
	}
	doc, err := openapi.Describe(ctx, o.Executable(), cfg.Task, options...)
	if err != nil {
		return err
	}
	out, err := openapi.Marshal(doc)
	if err != nil {
		return err
	}
	return write(output, out)
}

func printPayload(payload model.Payload, format string) error {
	switch format {
	case "json":
		out, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	case "form", "":
		fmt.Println(payload.Encode())
	default:
		return fmt.Errorf("unknown payload format %q", format)
	}
	return nil
}

func write(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "written to %s\n", path)
	return nil
}
