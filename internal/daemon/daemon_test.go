package daemon_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"sync"
	"testing"

	"cardsort/internal/api"
	"cardsort/internal/catalog"
	"cardsort/internal/config"
	"cardsort/internal/daemon"
	"cardsort/internal/dictionary"
	"cardsort/internal/ocr"
	"cardsort/internal/pipeline"
	"cardsort/internal/scryfall"
	"cardsort/internal/sorter"
	"cardsort/internal/testsupport"
)

type fakeExtractor struct {
	text string
}

func (f *fakeExtractor) Extract(context.Context, image.Image, config.Crop) (string, error) {
	return f.text, nil
}

type fakeEnricher struct {
	card *scryfall.Card
}

func (f *fakeEnricher) Named(context.Context, string) (*scryfall.Card, error) {
	return f.card, nil
}

type stubSorter struct {
	mu       sync.Mutex
	executed []catalog.Direction
}

func (s *stubSorter) Execute(_ context.Context, direction catalog.Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executed = append(s.executed, direction)
	return nil
}

func (s *stubSorter) State() sorter.State { return sorter.StateIdle }
func (s *stubSorter) Faulted() bool       { return false }
func (s *stubSorter) Cleanup() error      { return nil }

type fixture struct {
	cfg       *config.Config
	store     *catalog.Store
	corrector *dictionary.Corrector
	pipeline  *pipeline.Pipeline
	sorter    *stubSorter
	daemon    *daemon.Daemon
	baseURL   string
}

const testDictionary = "Sol Ring\t100\nLightning Bolt\t50\n"

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithDictionary(t, testDictionary))

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	corrector, err := dictionary.NewCorrector(cfg.Dictionary.Path, cfg.Dictionary.MaxEditDistance, nil)
	if err != nil {
		t.Fatalf("build corrector: %v", err)
	}

	srt := &stubSorter{}
	enricher := &fakeEnricher{card: &scryfall.Card{
		Name:     "Sol Ring",
		TypeLine: "Artifact",
		CMC:      1,
		Prices:   scryfall.Prices{EUR: "1.50"},
	}}
	pl := pipeline.New(ocr.NewCropStore(cfg.OCR.Crop), &fakeExtractor{text: "Sol Rinq"}, corrector, enricher, store, srt, nil)

	d, err := daemon.New(cfg, store, pl, corrector, srt, nil)
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("start daemon: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	return &fixture{
		cfg:       cfg,
		store:     store,
		corrector: corrector,
		pipeline:  pl,
		sorter:    srt,
		daemon:    d,
		baseURL:   "http://" + d.APIAddr(),
	}
}

func cardImage(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 100, 140))); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return &buf
}

func decodeJSON(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestStatusEndpoint(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.baseURL + "/api/status")
	if err != nil {
		t.Fatalf("GET status: %v", err)
	}
	var status api.DaemonStatus
	decodeJSON(t, resp, &status)

	if !status.Running {
		t.Fatal("daemon should report running")
	}
	if status.DictionaryTerms != 2 {
		t.Fatalf("dictionaryTerms = %d, want 2", status.DictionaryTerms)
	}
	if status.SorterState != "idle" || status.SorterFaulted {
		t.Fatalf("sorter status = %s faulted=%v", status.SorterState, status.SorterFaulted)
	}
	if status.CameraEnabled {
		t.Fatal("camera should be disabled in test config")
	}
}

func TestScanFlow(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Post(f.baseURL+"/api/scan", "image/png", cardImage(t))
	if err != nil {
		t.Fatalf("POST scan: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("scan status = %d", resp.StatusCode)
	}
	var scan api.ScanResponse
	decodeJSON(t, resp, &scan)

	if scan.Outcome != "recognized" || scan.Matched != "Sol Ring" {
		t.Fatalf("scan = %+v, want recognized Sol Ring", scan)
	}
	if scan.Direction != "right" {
		t.Fatalf("direction = %s, want right", scan.Direction)
	}
	if scan.Card == nil || scan.Card.Price == nil || *scan.Card.Price != 1.5 {
		t.Fatalf("card = %+v, want enriched record", scan.Card)
	}
	if len(f.sorter.executed) != 1 || f.sorter.executed[0] != catalog.DirectionRight {
		t.Fatalf("sorter executed %v", f.sorter.executed)
	}

	resp, err = http.Get(f.baseURL + "/api/cards")
	if err != nil {
		t.Fatalf("GET cards: %v", err)
	}
	var list api.CardListResponse
	decodeJSON(t, resp, &list)
	if len(list.Cards) != 1 || list.Cards[0].Name != "Sol Ring" {
		t.Fatalf("cards = %+v", list.Cards)
	}

	resp, err = http.Get(fmt.Sprintf("%s/api/cards/%d", f.baseURL, list.Cards[0].ID))
	if err != nil {
		t.Fatalf("GET card: %v", err)
	}
	var single api.CardResponse
	decodeJSON(t, resp, &single)
	if single.Card.ID != list.Cards[0].ID {
		t.Fatalf("card = %+v", single.Card)
	}
}

func TestScanRejectsNonImageBody(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Post(f.baseURL+"/api/scan", "text/plain", bytes.NewBufferString("not an image"))
	if err != nil {
		t.Fatalf("POST scan: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRuleLifecycle(t *testing.T) {
	f := newFixture(t)

	body, _ := json.Marshal(api.CreateRuleRequest{
		Name: "big cmc left", Attribute: "cmc", Operator: ">", Value: "3", Direction: "left",
	})
	resp, err := http.Post(f.baseURL+"/api/rules", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST rule: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var created api.RuleResponse
	decodeJSON(t, resp, &created)

	resp, err = http.Get(f.baseURL + "/api/rules")
	if err != nil {
		t.Fatalf("GET rules: %v", err)
	}
	var list api.RuleListResponse
	decodeJSON(t, resp, &list)
	if len(list.Rules) != 1 || list.Rules[0].Name != "big cmc left" {
		t.Fatalf("rules = %+v", list.Rules)
	}

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/rules/%d", f.baseURL, created.Rule.ID), nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE rule: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
}

func TestRuleValidationMapsToBadRequest(t *testing.T) {
	f := newFixture(t)

	body, _ := json.Marshal(api.CreateRuleRequest{
		Name: "bad", Attribute: "rarity", Operator: "=", Value: "mythic", Direction: "left",
	})
	resp, err := http.Post(f.baseURL+"/api/rules", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST rule: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCropEndpoints(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.baseURL + "/api/crop")
	if err != nil {
		t.Fatalf("GET crop: %v", err)
	}
	var crop api.Crop
	decodeJSON(t, resp, &crop)
	if crop.Left != f.cfg.OCR.Crop.Left {
		t.Fatalf("crop = %+v, want configured band", crop)
	}

	body, _ := json.Marshal(api.Crop{Left: 0.1, Top: 0.1, Right: 0.9, Bottom: 0.3})
	req, _ := http.NewRequest(http.MethodPut, f.baseURL+"/api/crop", bytes.NewReader(body))
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT crop: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put status = %d", resp.StatusCode)
	}
	if got := f.pipeline.Crop().Snapshot(); got.Left != 0.1 || got.Bottom != 0.3 {
		t.Fatalf("crop not applied: %+v", got)
	}

	// Inverted band must be rejected.
	body, _ = json.Marshal(api.Crop{Left: 0.9, Top: 0.1, Right: 0.1, Bottom: 0.3})
	req, _ = http.NewRequest(http.MethodPut, f.baseURL+"/api/crop", bytes.NewReader(body))
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT invalid crop: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid crop status = %d, want 400", resp.StatusCode)
	}
}

func TestDictionaryReloadEndpoint(t *testing.T) {
	f := newFixture(t)

	testsupport.WithDictionary(t, testDictionary+"Counterspell\t75\n")(f.cfg)
	resp, err := http.Post(f.baseURL+"/api/dictionary/reload", "application/json", nil)
	if err != nil {
		t.Fatalf("POST reload: %v", err)
	}
	var reload api.ReloadResponse
	decodeJSON(t, resp, &reload)
	if reload.Terms != 3 {
		t.Fatalf("terms = %d, want 3", reload.Terms)
	}
}

func TestExportCSV(t *testing.T) {
	f := newFixture(t)

	if resp, err := http.Post(f.baseURL+"/api/scan", "image/png", cardImage(t)); err != nil {
		t.Fatalf("POST scan: %v", err)
	} else {
		resp.Body.Close()
	}

	resp, err := http.Get(f.baseURL + "/api/export/csv")
	if err != nil {
		t.Fatalf("GET export: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Content-Type"); got != "text/csv; charset=utf-8" {
		t.Fatalf("content type = %q", got)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Sol Ring")) {
		t.Fatalf("export missing card: %q", buf.String())
	}
}

func TestSingleInstanceLock(t *testing.T) {
	f := newFixture(t)

	second, err := daemon.New(f.cfg, f.store, f.pipeline, f.corrector, f.sorter, nil)
	if err != nil {
		t.Fatalf("new second daemon: %v", err)
	}
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("second daemon instance must fail to start")
	}
}
