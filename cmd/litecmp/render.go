package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/pthm/litecmp"
	"github.com/pthm/litecmp/lib/dom"
)

type renderOptions struct {
	template string
	props    string
	item     string
	host     string
}

func renderCmd(cfgFile *string) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render TEMPLATE",
		Short: "Mount a template as a component and print the rendered host",
		Long: `Render executes TEMPLATE (Go html/template syntax) with the props file
as .Props, resolves <slot> markers from props "children" and "slots",
mounts the result into the host document and prints the host's contents.

With --item, every entry of props "items" is rendered with that template,
stamped with its key attribute and exposed to TEMPLATE as .Items.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("log level: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			opts.template = args[0]
			return runRender(cmd.OutOrStdout(), cfg, opts, logger)
		},
	}

	cmd.Flags().StringVarP(&opts.props, "props", "p", "", "YAML props file")
	cmd.Flags().StringVar(&opts.item, "item", "", "template for each entry of props.items")
	cmd.Flags().StringVar(&opts.host, "host", "", "HTML file to mount into (default <div id=\"app\">)")
	cmd.Flags().String("target", "", "selector of the mount target (default #app)")
	return cmd
}

// renderData is the value templates are executed with.
type renderData struct {
	Props map[string]any
	Items template.HTML
	Item  any
	Index int
}

func runRender(w io.Writer, cfg Config, opts renderOptions, logger *zap.Logger) error {
	page, err := parseTemplate(opts.template)
	if err != nil {
		return err
	}

	props := map[string]any{}
	if opts.props != "" {
		if props, err = loadProps(opts.props); err != nil {
			return err
		}
	}

	var item *template.Template
	if opts.item != "" {
		if item, err = parseTemplate(opts.item); err != nil {
			return err
		}
	}

	hostMarkup := `<div id="app"></div>`
	if opts.host != "" {
		b, err := os.ReadFile(opts.host)
		if err != nil {
			return fmt.Errorf("read host: %w", err)
		}
		hostMarkup = string(b)
	}
	doc, err := dom.Parse(hostMarkup)
	if err != nil {
		return fmt.Errorf("parse host: %w", err)
	}

	rt := litecmp.NewRuntime(doc,
		litecmp.WithLogger(logger),
		litecmp.WithRegistry(litecmp.NewRegistry()),
		litecmp.WithConfig(litecmp.Config{KeyAttr: cfg.KeyAttr}),
	)

	c := rt.Create(func(v litecmp.View) (string, error) {
		data := renderData{Props: props}
		if item != nil {
			items, err := renderItems(item, v.ListOptions(), props["items"])
			if err != nil {
				return "", err
			}
			data.Items = template.HTML(items)
		}
		var buf bytes.Buffer
		if err := page.Execute(&buf, data); err != nil {
			return "", err
		}
		return buf.String(), nil
	}, litecmp.Options{
		Name:  strings.TrimSuffix(filepath.Base(opts.template), filepath.Ext(opts.template)),
		Props: props,
	})

	if err := c.Mount(cfg.Target); err != nil {
		return err
	}
	logger.Debug("rendered", zap.String("component", c.Name()), zap.String("target", cfg.Target))

	_, err = io.WriteString(w, dom.InnerHTML(c.El())+"\n")
	return err
}

func renderItems(tmpl *template.Template, opts litecmp.ListOptions, raw any) (string, error) {
	list, _ := raw.([]any)

	var execErr error
	fragments := litecmp.RenderListWith(opts, list, func(item any, i int) string {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, renderData{Item: item, Index: i}); err != nil && execErr == nil {
			execErr = err
		}
		return buf.String()
	})
	if execErr != nil {
		return "", execErr
	}
	return litecmp.JoinList(fragments), nil
}

func parseTemplate(path string) (*template.Template, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	t, err := template.New(filepath.Base(path)).Parse(string(b))
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return t, nil
}

func loadProps(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read props: %w", err)
	}
	props := map[string]any{}
	if err := yaml.Unmarshal(b, &props); err != nil {
		return nil, fmt.Errorf("parse props: %w", err)
	}
	return props, nil
}
