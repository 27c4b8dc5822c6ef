package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	textpkg "github.com/example/go-german-tts/internal/text"
	"github.com/spf13/cobra"
)

func newEncodeCmd() *cobra.Command {
	var text string
	var asJSON bool
	var showNormalized bool

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the symbol id sequence for German text",
		RunE: func(cmd *cobra.Command, _ []string) error {
			input, err := readSynthText(text, cmd.InOrStdin())
			if err != nil {
				return err
			}

			input, err = textpkg.CleanInput(input)
			if err != nil {
				return err
			}

			normalizer := textpkg.NewGermanNormalizer(textpkg.DefaultGermanOptions())
			ids := textpkg.NewEncoder(textpkg.DefaultSymbolTable(), normalizer).Encode(input)

			w := cmd.OutOrStdout()
			if showNormalized {
				if _, err := fmt.Fprintln(w, normalizer.Normalize(input)); err != nil {
					return err
				}
			}

			if asJSON {
				return json.NewEncoder(w).Encode(ids)
			}

			parts := make([]string, len(ids))
			for i, id := range ids {
				parts[i] = strconv.Itoa(id)
			}
			_, err = fmt.Fprintln(w, strings.Join(parts, " "))
			return err
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to encode (if empty, read from stdin)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the ids as a JSON array")
	cmd.Flags().BoolVar(&showNormalized, "show-normalized", false, "Print the normalized text before the ids")

	return cmd
}
