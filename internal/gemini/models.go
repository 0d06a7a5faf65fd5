package gemini

const (
	ModelGemini20Flash     = "gemini-2.0-flash"
	ModelGemini25FlashLite = "gemini-2.5-flash-lite"
	ModelGemini25Flash     = "gemini-2.5-flash"
	ModelGemini25Pro       = "gemini-2.5-pro"
)

// Model describes one model the server is willing to route to.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	OwnedBy string `json:"owned_by"`
	Vision  bool   `json:"vision"`
}

// DefaultModels is the catalog used when none is configured.
var DefaultModels = []Model{
	{ID: ModelGemini20Flash, Object: "model", OwnedBy: "google", Vision: true},
	{ID: ModelGemini25FlashLite, Object: "model", OwnedBy: "google", Vision: true},
	{ID: ModelGemini25Flash, Object: "model", OwnedBy: "google", Vision: true},
	{ID: ModelGemini25Pro, Object: "model", OwnedBy: "google", Vision: true},
}

// Catalog resolves a caller's model selector to a concrete model.
type Catalog struct {
	models      []Model
	textModel   string
	visionModel string
}

// NewCatalog creates a catalog. Empty defaults fall back to gemini-2.5-flash.
func NewCatalog(models []Model, textModel, visionModel string) *Catalog {
	if len(models) == 0 {
		models = DefaultModels
	}
	if textModel == "" {
		textModel = ModelGemini25Flash
	}
	if visionModel == "" {
		visionModel = ModelGemini25Flash
	}
	return &Catalog{
		models:      models,
		textModel:   textModel,
		visionModel: visionModel,
	}
}

// Models returns the models in the catalog.
func (c *Catalog) Models() []Model {
	return c.models
}

// Lookup finds a model by ID.
func (c *Catalog) Lookup(id string) (Model, bool) {
	for _, m := range c.models {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// Resolve returns the model to call. The selector wins when it names a
// catalog model able to serve the path; otherwise the configured default for
// the path is used.
func (c *Catalog) Resolve(selector string, vision bool) string {
	if m, ok := c.Lookup(selector); ok && (m.Vision || !vision) {
		return m.ID
	}
	if vision {
		return c.visionModel
	}
	return c.textModel
}
