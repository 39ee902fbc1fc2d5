package renderservice

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"notifykit/internal/fields"
	"notifykit/internal/template"

	logx "notifykit/pkg/logx"
)

// spoolItem is the wire shape of one queued notification in a batch file.
type spoolItem struct {
	ID       string         `json:"id"`
	Template spoolTemplate  `json:"template"`
	Values   map[string]any `json:"values,omitempty"`
}

type spoolTemplate struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Type    string `json:"type"`
	Subject string `json:"subject,omitempty"`
	Content string `json:"content"`
}

// SpoolSource reads item batches from *.json files in dir. Consumed files
// are renamed to *.json.done so a fire never re-submits them; files that
// fail to parse become *.json.rejected and are reported once.
func SpoolSource(dir string, log logx.Logger) Source {
	return func(ctx context.Context) ([]Item, error) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read spool %s: %w", dir, err)
		}

		var names []string
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)

		var items []Item
		for _, name := range names {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			path := filepath.Join(dir, name)
			batch, err := readSpoolFile(path)
			if err != nil {
				if !log.IsZero() {
					log.Warn("spool file rejected", logx.String("file", path), logx.Any("err", err))
				}
				_ = os.Rename(path, path+".rejected")
				continue
			}
			if err := os.Rename(path, path+".done"); err != nil {
				return nil, fmt.Errorf("consume spool file %s: %w", path, err)
			}
			items = append(items, batch...)
		}
		return items, nil
	}
}

func readSpoolFile(path string) ([]Item, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []spoolItem
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse batch: %w", err)
	}

	items := make([]Item, 0, len(raw))
	for i, it := range raw {
		if it.ID == "" {
			return nil, fmt.Errorf("item %d has no id", i)
		}
		if it.Template.Content == "" {
			return nil, fmt.Errorf("item %s has no template content", it.ID)
		}
		items = append(items, Item{
			ID: it.ID,
			Record: template.Record{
				ID:      it.Template.ID,
				Name:    it.Template.Name,
				Type:    template.Type(it.Template.Type),
				Subject: it.Template.Subject,
				Content: it.Template.Content,
			},
			Values: fields.Values(it.Values),
		})
	}
	return items, nil
}
