package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"cfp-engine/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var tagsFile string

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Manage suggested tags",
}

var tagsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import suggested tags from a YAML file",
	Long: `import reads a YAML file that is either a plain list of tag names
or a mapping with a "tags" key and marks every name as suggested.
Existing tags are promoted, not duplicated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(tagsFile)
		if err != nil {
			return fmt.Errorf("read %s: %w", tagsFile, err)
		}
		names, err := parseTagFile(data)
		if err != nil {
			return fmt.Errorf("parse %s: %w", tagsFile, err)
		}

		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := service.NewTagService(db.DB).ImportSuggested(cmd.Context(), names)
		if err != nil {
			return err
		}
		printStatus("✓", fmt.Sprintf("Imported %d suggested tags", n), color.FgGreen)
		return nil
	},
}

type tagFile struct {
	Tags []string `yaml:"tags"`
}

// parseTagFile accepts either a top-level sequence or {tags: [...]}.
// Blank entries are dropped.
func parseTagFile(data []byte) ([]string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, errors.New("file is empty")
	}

	var raw []string
	switch doc := root.Content[0]; doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&raw); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		var f tagFile
		if err := doc.Decode(&f); err != nil {
			return nil, err
		}
		raw = f.Tags
	default:
		return nil, errors.New("expected a list of tags or a tags key")
	}

	names := make([]string, 0, len(raw))
	for _, name := range raw {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, errors.New("no tags found")
	}
	return names, nil
}

func init() {
	tagsImportCmd.Flags().StringVarP(&tagsFile, "file", "f", "", "YAML file with tag names")
	_ = tagsImportCmd.MarkFlagRequired("file")

	tagsCmd.AddCommand(tagsImportCmd)
}
