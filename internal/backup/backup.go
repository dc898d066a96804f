// Package backup exports the whole ledger as one JSON document and restores it.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/aion/internal/card"
	"github.com/MrJamesThe3rd/aion/internal/goal"
	"github.com/MrJamesThe3rd/aion/internal/settings"
	"github.com/MrJamesThe3rd/aion/internal/snapshot"
	"github.com/MrJamesThe3rd/aion/internal/transaction"
)

const (
	AppVersion = "1.4.0"

	defaultUserName = "Investidor"
)

// ErrInvalidBundle is returned when a backup cannot be read or has no transactions array.
var ErrInvalidBundle = errors.New("invalid backup")

// Preferences mirrors settings.Settings. Older backups may omit any field.
type Preferences struct {
	Theme      string `json:"theme,omitempty"`
	Mode       string `json:"mode,omitempty"`
	User       string `json:"user,omitempty"`
	ShowIncome *bool  `json:"showIncome,omitempty"`
}

// Bundle is the backup document. Only Transactions is required on restore;
// every other collection is left untouched when absent.
type Bundle struct {
	Transactions []snapshot.Transaction `json:"transactions"`
	Cards        []snapshot.Card        `json:"cards"`
	Categories   []string               `json:"categories"`
	Goals        []snapshot.Goal        `json:"goals"`
	Settings     *Preferences           `json:"settings,omitempty"`
	BackupDate   string                 `json:"backupDate"`
	AppVersion   string                 `json:"appVersion"`
}

type Ledger interface {
	Now() time.Time
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
	Replace(ctx context.Context, txs []*transaction.Transaction) error
}

type CardStore interface {
	List(ctx context.Context) ([]*card.Card, error)
	Replace(ctx context.Context, cards []*card.Card) error
}

type GoalStore interface {
	List(ctx context.Context) ([]*goal.Goal, error)
	Replace(ctx context.Context, goals []*goal.Goal) error
}

type CategoryStore interface {
	List(ctx context.Context) ([]string, error)
	Replace(ctx context.Context, names []string) error
}

type SettingsStore interface {
	Get(ctx context.Context) (settings.Settings, error)
	Save(ctx context.Context, s settings.Settings) error
}

type Service struct {
	ledger     Ledger
	cards      CardStore
	goals      GoalStore
	categories CategoryStore
	settings   SettingsStore
}

func NewService(ledger Ledger, cards CardStore, goals GoalStore, categories CategoryStore, prefs SettingsStore) *Service {
	return &Service{
		ledger:     ledger,
		cards:      cards,
		goals:      goals,
		categories: categories,
		settings:   prefs,
	}
}

// Export collects every collection into a Bundle stamped with the current time.
func (s *Service) Export(ctx context.Context) (*Bundle, error) {
	txs, err := s.ledger.List(ctx, transaction.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	cards, err := s.cards.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing cards: %w", err)
	}

	goals, err := s.goals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}

	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	prefs, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting settings: %w", err)
	}

	b := &Bundle{
		Transactions: make([]snapshot.Transaction, 0, len(txs)),
		Cards:        make([]snapshot.Card, 0, len(cards)),
		Categories:   categories,
		Goals:        make([]snapshot.Goal, 0, len(goals)),
		Settings: &Preferences{
			Theme:      prefs.Theme,
			Mode:       prefs.Mode,
			User:       prefs.UserName,
			ShowIncome: new(prefs.ShowIncome),
		},
		BackupDate: s.ledger.Now().UTC().Format(time.RFC3339),
		AppVersion: AppVersion,
	}

	for _, tx := range txs {
		b.Transactions = append(b.Transactions, snapshot.FromTransaction(tx))
	}

	for _, c := range cards {
		b.Cards = append(b.Cards, snapshot.FromCard(c))
	}

	for _, g := range goals {
		b.Goals = append(b.Goals, snapshot.FromGoal(g))
	}

	if b.Categories == nil {
		b.Categories = []string{}
	}

	return b, nil
}

// Write encodes the current ledger as indented JSON.
func (s *Service) Write(ctx context.Context, w io.Writer) error {
	b, err := s.Export(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}

	return nil
}

// Result counts what a restore replaced.
type Result struct {
	BackupDate   string
	Transactions int
	Cards        int
	Goals        int
	Categories   int
	Settings     bool
}

// Read parses a backup file, normalising its text encoding first.
func Read(r io.Reader) (*Bundle, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}

	data, err := toUTF8(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBundle, err)
	}

	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBundle, err)
	}

	if b.Transactions == nil {
		return nil, fmt.Errorf("%w: missing transactions", ErrInvalidBundle)
	}

	return &b, nil
}

// Restore replaces the stored collections with the ones present in the backup.
// Every document is validated before anything is written.
func (s *Service) Restore(ctx context.Context, r io.Reader) (*Result, error) {
	b, err := Read(r)
	if err != nil {
		return nil, err
	}

	loc := s.ledger.Now().Location()

	txs, err := snapshot.Transactions(b.Transactions, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBundle, err)
	}

	var (
		cards []*card.Card
		goals []*goal.Goal
	)

	if b.Cards != nil {
		if cards, err = snapshot.Cards(b.Cards); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidBundle, err)
		}
	}

	if b.Goals != nil {
		if goals, err = snapshot.Goals(b.Goals, loc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidBundle, err)
		}
	}

	res := &Result{BackupDate: b.BackupDate, Transactions: len(txs)}

	if err := s.ledger.Replace(ctx, txs); err != nil {
		return nil, fmt.Errorf("restoring transactions: %w", err)
	}

	if b.Cards != nil {
		if err := s.cards.Replace(ctx, cards); err != nil {
			return nil, fmt.Errorf("restoring cards: %w", err)
		}

		res.Cards = len(cards)
	}

	if b.Goals != nil {
		if err := s.goals.Replace(ctx, goals); err != nil {
			return nil, fmt.Errorf("restoring goals: %w", err)
		}

		res.Goals = len(goals)
	}

	if b.Categories != nil {
		if err := s.categories.Replace(ctx, b.Categories); err != nil {
			return nil, fmt.Errorf("restoring categories: %w", err)
		}

		res.Categories = len(b.Categories)
	}

	if b.Settings != nil {
		if err := s.settings.Save(ctx, b.Settings.toSettings()); err != nil {
			return nil, fmt.Errorf("restoring settings: %w", err)
		}

		res.Settings = true
	}

	zerolog.Ctx(ctx).Info().
		Str("backup_date", b.BackupDate).
		Str("app_version", b.AppVersion).
		Int("transactions", res.Transactions).
		Int("cards", res.Cards).
		Int("goals", res.Goals).
		Msg("backup restored")

	return res, nil
}

// Reset wipes every collection and restores default settings.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.ledger.Replace(ctx, nil); err != nil {
		return fmt.Errorf("clearing transactions: %w", err)
	}

	if err := s.cards.Replace(ctx, nil); err != nil {
		return fmt.Errorf("clearing cards: %w", err)
	}

	if err := s.goals.Replace(ctx, nil); err != nil {
		return fmt.Errorf("clearing goals: %w", err)
	}

	if err := s.categories.Replace(ctx, nil); err != nil {
		return fmt.Errorf("clearing categories: %w", err)
	}

	if err := s.settings.Save(ctx, settings.Default()); err != nil {
		return fmt.Errorf("resetting settings: %w", err)
	}

	zerolog.Ctx(ctx).Warn().Msg("ledger reset to factory state")

	return nil
}

func (p *Preferences) toSettings() settings.Settings {
	out := settings.Default()
	out.UserName = defaultUserName

	if p.Theme != "" {
		out.Theme = p.Theme
	}

	if p.Mode != "" {
		out.Mode = p.Mode
	}

	if p.User != "" {
		out.UserName = p.User
	}

	if p.ShowIncome != nil {
		out.ShowIncome = *p.ShowIncome
	}

	return out
}
