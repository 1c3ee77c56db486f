package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/kitesidebar/internal/document"
	"github.com/dgallion1/kitesidebar/internal/dom"
)

func newRenderCmd(configPath *string) *cobra.Command {
	var (
		file  string
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "render <step>",
		Short: "Render one navigation step to stdout",
		Long: `Render a single navigation step, e.g. "value/python;os" or
"kite-vscode-sidebar://value-position/{\"line\":3,\"character\":7}".
Position and range steps read the buffer from --file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			log := newLogger(cfg.LogFormat, cmd.ErrOrStderr())

			c, err := build(cfg, log)
			if err != nil {
				return err
			}
			defer c.client.Close()

			if file != "" {
				text, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read %s: %w", file, err)
				}
				c.docs.Set(&document.Document{Filename: file, Text: string(text)})
			}

			step, err := c.nav.Navigate(args[0])
			if err != nil {
				return err
			}
			out, err := c.nav.ProvideTextDocumentContent(cmd.Context())
			if err != nil {
				return fmt.Errorf("render %s: %w", step, err)
			}
			if plain {
				if out, err = dom.PlainText(out); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "source file to use as the active document")
	cmd.Flags().BoolVar(&plain, "plain", false, "print plain text instead of HTML")
	return cmd
}
