package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	apierrors "github.com/diogo/llmchat/internal/errors"
	"github.com/diogo/llmchat/internal/models"
)

// Validation limits
const (
	MaxModelNameLength   = 64
	MaxDescriptionLength = 200
	MaxPromptLength      = 32 * 1024 // 32KB
)

// ModelPrompts lists the system prompts offered for one model
type ModelPrompts struct {
	Model       string   `toml:"model"`
	Description string   `toml:"description,omitempty"`
	Prompts     []string `toml:"prompts"`
}

// CatalogFile is the on-disk shape of catalog.toml
type CatalogFile struct {
	DefaultModel string         `toml:"default_model,omitempty"`
	Models       []ModelPrompts `toml:"models"`
}

// Catalog is the validated mapping from model identifiers to their ordered
// system prompt options. Lookups never fall back to a default: a model that
// is not in the catalog is an error.
type Catalog struct {
	order        []models.ModelID
	entries      map[models.ModelID]ModelPrompts
	defaultModel models.ModelID
}

// DefaultCatalogFile returns the built-in model and prompt options
func DefaultCatalogFile() CatalogFile {
	return CatalogFile{
		DefaultModel: string(models.DefaultModel),
		Models: []ModelPrompts{
			{
				Model:       string(models.ModelGPT4o),
				Description: "Flagship multimodal model",
				Prompts: []string{
					"You are a helpful assistant.",
					"You speak in french.",
					"you are a pirate.",
				},
			},
			{
				Model:       string(models.ModelO3Mini),
				Description: "Small reasoning model",
				Prompts: []string{
					"You are a helpful assistant",
					"you speak in chinese",
				},
			},
		},
	}
}

// DefaultCatalog returns the validated built-in catalog
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultCatalogFile())
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return c
}

// NewCatalog validates file and builds a Catalog from it
func NewCatalog(file CatalogFile) (*Catalog, error) {
	if err := ValidateCatalog(file); err != nil {
		return nil, err
	}

	c := &Catalog{
		order:   make([]models.ModelID, 0, len(file.Models)),
		entries: make(map[models.ModelID]ModelPrompts, len(file.Models)),
	}
	for _, mp := range file.Models {
		id := models.ModelID(strings.TrimSpace(mp.Model))
		prompts := make([]string, len(mp.Prompts))
		copy(prompts, mp.Prompts)
		mp.Model = string(id)
		mp.Prompts = prompts
		c.order = append(c.order, id)
		c.entries[id] = mp
	}

	c.defaultModel = c.order[0]
	if file.DefaultModel != "" {
		c.defaultModel = models.ModelID(strings.TrimSpace(file.DefaultModel))
	}

	return c, nil
}

// ValidateCatalog checks every model and prompt in file
func ValidateCatalog(file CatalogFile) error {
	var problems []string

	if len(file.Models) == 0 {
		problems = append(problems, "at least one model is required")
	}

	seen := make(map[string]bool, len(file.Models))
	for i, mp := range file.Models {
		name := strings.TrimSpace(mp.Model)
		label := name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}

		switch {
		case name == "":
			problems = append(problems, fmt.Sprintf("model %s: name is required", label))
		case len(name) > MaxModelNameLength:
			problems = append(problems, fmt.Sprintf("model %s: name too long (max %d characters)", label, MaxModelNameLength))
		case seen[name]:
			problems = append(problems, fmt.Sprintf("model %s: listed more than once", label))
		}
		seen[name] = true

		if len(mp.Description) > MaxDescriptionLength {
			problems = append(problems, fmt.Sprintf("model %s: description too long (max %d characters)", label, MaxDescriptionLength))
		}

		if len(mp.Prompts) == 0 {
			problems = append(problems, fmt.Sprintf("model %s: at least one prompt is required", label))
		}
		seenPrompt := make(map[string]bool, len(mp.Prompts))
		for j, p := range mp.Prompts {
			switch {
			case strings.TrimSpace(p) == "":
				problems = append(problems, fmt.Sprintf("model %s: prompt %d is empty", label, j+1))
			case len(p) > MaxPromptLength:
				problems = append(problems, fmt.Sprintf("model %s: prompt %d too long (max %d characters)", label, j+1, MaxPromptLength))
			case seenPrompt[p]:
				problems = append(problems, fmt.Sprintf("model %s: prompt %d duplicates an earlier prompt", label, j+1))
			}
			seenPrompt[p] = true
		}
	}

	if def := strings.TrimSpace(file.DefaultModel); def != "" && !seen[def] {
		problems = append(problems, fmt.Sprintf("default model %s is not in the catalog", def))
	}

	if len(problems) > 0 {
		return apierrors.NewConfigError("", "validation failed: "+strings.Join(problems, "; "), nil)
	}
	return nil
}

// GetCatalogPath returns the path to the user catalog file
func GetCatalogPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "catalog.toml"), nil
}

// LoadCatalog loads the user catalog merged over the built-in one.
// A missing catalog file yields the built-in catalog.
func LoadCatalog() (*Catalog, error) {
	path, err := GetCatalogPath()
	if err != nil {
		return nil, err
	}
	return LoadCatalogFile(path)
}

// LoadCatalogFile loads the catalog at path merged over the built-in one
func LoadCatalogFile(path string) (*Catalog, error) {
	var custom CatalogFile
	if _, err := toml.DecodeFile(path, &custom); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultCatalog(), nil
		}
		return nil, apierrors.NewConfigError(path, "failed to parse catalog", err)
	}
	if err := checkUniqueModels(custom); err != nil {
		return nil, apierrors.NewConfigError(path, "validation failed: "+err.Error(), nil)
	}

	merged := mergeCatalog(DefaultCatalogFile(), custom)
	c, err := NewCatalog(merged)
	if err != nil {
		var cfgErr *apierrors.ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.Path = path
		}
		return nil, err
	}
	return c, nil
}

// checkUniqueModels rejects a file that lists the same model twice. It runs
// before merging, which would otherwise let the last entry win.
func checkUniqueModels(file CatalogFile) error {
	seen := make(map[string]bool, len(file.Models))
	var dups []string
	for _, mp := range file.Models {
		name := strings.TrimSpace(mp.Model)
		if name == "" {
			continue
		}
		if seen[name] && !slices.Contains(dups, name) {
			dups = append(dups, name)
		}
		seen[name] = true
	}
	if len(dups) > 0 {
		return fmt.Errorf("model %s: listed more than once", strings.Join(dups, ", "))
	}
	return nil
}

// mergeCatalog adds custom models to defaults, replacing models that share an id
func mergeCatalog(defaults, custom CatalogFile) CatalogFile {
	result := CatalogFile{
		DefaultModel: defaults.DefaultModel,
		Models:       make([]ModelPrompts, len(defaults.Models)),
	}
	copy(result.Models, defaults.Models)

	for _, cm := range custom.Models {
		found := false
		for i, dm := range result.Models {
			if dm.Model == strings.TrimSpace(cm.Model) {
				result.Models[i] = cm
				found = true
				break
			}
		}
		if !found {
			result.Models = append(result.Models, cm)
		}
	}

	if custom.DefaultModel != "" {
		result.DefaultModel = custom.DefaultModel
	}

	return result
}

// Models returns the catalog's model identifiers in display order
func (c *Catalog) Models() []models.ModelID {
	out := make([]models.ModelID, len(c.order))
	copy(out, c.order)
	return out
}

// ModelNames returns the model identifiers as strings
func (c *Catalog) ModelNames() []string {
	names := make([]string, len(c.order))
	for i, id := range c.order {
		names[i] = string(id)
	}
	return names
}

// Has reports whether id is in the catalog
func (c *Catalog) Has(id models.ModelID) bool {
	_, ok := c.entries[id]
	return ok
}

// Lookup resolves name to a catalog model or an UnknownModelError
func (c *Catalog) Lookup(name string) (models.ModelID, error) {
	id := models.ModelID(strings.TrimSpace(name))
	if !c.Has(id) {
		known := c.ModelNames()
		sort.Strings(known)
		return "", apierrors.NewUnknownModelError(name, known)
	}
	return id, nil
}

// Prompts returns a copy of the prompt options for id
func (c *Catalog) Prompts(id models.ModelID) ([]string, error) {
	mp, ok := c.entries[id]
	if !ok {
		return nil, apierrors.NewUnknownModelError(string(id), c.ModelNames())
	}
	out := make([]string, len(mp.Prompts))
	copy(out, mp.Prompts)
	return out, nil
}

// FirstPrompt returns the option a model resets to when it gets selected
func (c *Catalog) FirstPrompt(id models.ModelID) (string, error) {
	prompts, err := c.Prompts(id)
	if err != nil {
		return "", err
	}
	return prompts[0], nil
}

// Description returns the model's human readable description
func (c *Catalog) Description(id models.ModelID) string {
	return c.entries[id].Description
}

// DefaultModel returns the catalog's default model
func (c *Catalog) DefaultModel() models.ModelID {
	return c.defaultModel
}

// File returns the catalog in its on-disk shape
func (c *Catalog) File() CatalogFile {
	out := CatalogFile{DefaultModel: string(c.defaultModel)}
	for _, id := range c.order {
		mp := c.entries[id]
		mp.Prompts = append([]string(nil), mp.Prompts...)
		out.Models = append(out.Models, mp)
	}
	return out
}
