package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Card describes a catalog record in a transport-friendly format.
type Card struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name,omitempty"`
	Recognized    bool     `json:"recognized"`
	RawOCRText    string   `json:"rawOcrText,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	ColorIdentity string   `json:"colorIdentity,omitempty"`
	CMC           *int64   `json:"cmc,omitempty"`
	TypeLine      string   `json:"typeLine,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	Quantity      int64    `json:"quantity"`
	CreatedAt     string   `json:"createdAt,omitempty"`
	UpdatedAt     string   `json:"updatedAt,omitempty"`
}

// Rule describes a sorting rule in a transport-friendly format.
type Rule struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Attribute string `json:"attribute"`
	Operator  string `json:"operator"`
	Value     string `json:"value"`
	Direction string `json:"direction"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// CreateRuleRequest is the POST body for new rules.
type CreateRuleRequest struct {
	Name      string `json:"name"`
	Attribute string `json:"attribute"`
	Operator  string `json:"operator"`
	Value     string `json:"value"`
	Direction string `json:"direction"`
}

// Crop carries the four name-band ratios.
type Crop struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// ScanResponse reports the outcome of one processed card photo.
type ScanResponse struct {
	ScanID    string   `json:"scanId"`
	Outcome   string   `json:"outcome"`
	RawText   string   `json:"rawText,omitempty"`
	Matched   string   `json:"matched,omitempty"`
	Distance  int      `json:"distance,omitempty"`
	Card      *Card    `json:"card,omitempty"`
	Direction string   `json:"direction"`
	Rule      *Rule    `json:"rule,omitempty"`
	Errors    []string `json:"errors,omitempty"`
	ElapsedMS int64    `json:"elapsedMs"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running         bool   `json:"running"`
	PID             int    `json:"pid"`
	SorterState     string `json:"sorterState"`
	SorterFaulted   bool   `json:"sorterFaulted"`
	CatalogDBPath   string `json:"catalogDbPath"`
	LockFilePath    string `json:"lockFilePath"`
	CatalogCount    int64  `json:"catalogCount"`
	DictionaryTerms int    `json:"dictionaryTerms"`
	CameraEnabled   bool   `json:"cameraEnabled"`
	CameraPresent   bool   `json:"cameraPresent"`
}

// CardListResponse wraps a collection of cards.
type CardListResponse struct {
	Cards []Card `json:"cards"`
}

// CardResponse wraps a single card.
type CardResponse struct {
	Card Card `json:"card"`
}

// RuleListResponse wraps a collection of rules.
type RuleListResponse struct {
	Rules []Rule `json:"rules"`
}

// RuleResponse wraps a single rule.
type RuleResponse struct {
	Rule Rule `json:"rule"`
}

// ReloadResponse reports the dictionary size after a reload.
type ReloadResponse struct {
	Terms int `json:"terms"`
}
