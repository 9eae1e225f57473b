// Package store is the persistence boundary around one engine invocation:
// yaml snapshots of the domain records, the numbering ledger, the recorded
// expenses and the exchange-rate cache, re-read from scratch every run and
// written back atomically.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"invo/internal/calendar"
	"invo/internal/fx"
	"invo/internal/ledger"
	"invo/internal/logger"
	"invo/pkg/models"
)

const (
	vendorFile     = "vendor.yaml"
	clientFile     = "client.yaml"
	paymentFile    = "payment.yaml"
	serviceFeeFile = "service_fee.yaml"
	ledgerFile     = "ledger.yaml"
	expensesFile   = "expenses.yaml"
	ratesFile      = "cached_rates.yaml"
)

// Store reads and writes the data directory.
type Store struct {
	dir      string
	validate *validator.Validate
	log      zerolog.Logger
}

// New builds a store over the given data directory.
func New(dir string) *Store {
	return &Store{
		dir:      dir,
		validate: validator.New(),
		log:      logger.WithComponent("store"),
	}
}

// Dir returns the data directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Init writes a complete data directory. Existing files are only
// overwritten when force is set.
func (s *Store) Init(records *models.Records, state ledger.State, force bool) error {
	const op = "Init"
	if !force {
		if _, err := os.Stat(filepath.Join(s.dir, ledgerFile)); err == nil {
			return persistErr(op, s.dir, fmt.Errorf("already initialized (use --force to overwrite)"))
		}
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return persistErr(op, s.dir, err)
	}
	if err := s.writeYAML(vendorFile, companyToDoc(records.Vendor)); err != nil {
		return err
	}
	if err := s.writeYAML(clientFile, companyToDoc(records.Client)); err != nil {
		return err
	}
	if err := s.writeYAML(paymentFile, paymentToDoc(records.Payment)); err != nil {
		return err
	}
	if err := s.writeYAML(serviceFeeFile, serviceFeeToDoc(records.Fee)); err != nil {
		return err
	}
	if err := s.SaveLedger(state); err != nil {
		return err
	}
	if err := s.SaveExpenses(map[calendar.Period][]models.ExpenseItem{}); err != nil {
		return err
	}
	s.log.Info().Str("dir", s.dir).Msg("Data directory initialized")
	return nil
}

// LoadRecords reads and validates the four domain record files. The engine
// trusts records after this point.
func (s *Store) LoadRecords() (*models.Records, error) {
	var vendorD, clientD companyDoc
	if err := s.readYAML(vendorFile, &vendorD, true); err != nil {
		return nil, err
	}
	if err := s.readYAML(clientFile, &clientD, true); err != nil {
		return nil, err
	}
	var paymentD paymentDoc
	if err := s.readYAML(paymentFile, &paymentD, true); err != nil {
		return nil, err
	}
	var feeD serviceFeeDoc
	if err := s.readYAML(serviceFeeFile, &feeD, true); err != nil {
		return nil, err
	}

	payment, err := paymentD.toModel()
	if err != nil {
		return nil, persistErr("LoadRecords", s.path(paymentFile), err)
	}
	fee, err := feeD.toModel()
	if err != nil {
		return nil, persistErr("LoadRecords", s.path(serviceFeeFile), err)
	}
	records := &models.Records{
		Vendor:  vendorD.toModel(),
		Client:  clientD.toModel(),
		Payment: payment,
		Fee:     fee,
	}
	for path, record := range map[string]interface{}{
		s.path(vendorFile):     records.Vendor,
		s.path(clientFile):     records.Client,
		s.path(paymentFile):    records.Payment,
		s.path(serviceFeeFile): records.Fee,
	} {
		if err := s.validate.Struct(record); err != nil {
			return nil, persistErr("LoadRecords", path, err)
		}
	}
	return records, nil
}

// LoadLedger reads the numbering ledger state.
func (s *Store) LoadLedger() (ledger.State, error) {
	var doc ledgerDoc
	if err := s.readYAML(ledgerFile, &doc, true); err != nil {
		return ledger.State{}, err
	}
	state, err := doc.toState()
	if err != nil {
		return ledger.State{}, persistErr("LoadLedger", s.path(ledgerFile), err)
	}
	return state, nil
}

// SaveLedger writes the numbering ledger state.
func (s *Store) SaveLedger(state ledger.State) error {
	return s.writeYAML(ledgerFile, ledgerToDoc(state))
}

// LoadExpenses reads the recorded expenses. A missing file is an empty
// ledger, not an error.
func (s *Store) LoadExpenses() (map[calendar.Period][]models.ExpenseItem, error) {
	doc := expensesDoc{}
	if err := s.readYAML(expensesFile, &doc, false); err != nil {
		return nil, err
	}
	out := make(map[calendar.Period][]models.ExpenseItem, len(doc))
	for label, itemDocs := range doc {
		period, err := calendar.ParsePeriod(label)
		if err != nil {
			return nil, persistErr("LoadExpenses", s.path(expensesFile), err)
		}
		items := make([]models.ExpenseItem, 0, len(itemDocs))
		for _, itemDoc := range itemDocs {
			item, err := itemDoc.toModel()
			if err != nil {
				return nil, persistErr("LoadExpenses", s.path(expensesFile), err)
			}
			if err := s.validate.Struct(item); err != nil {
				return nil, persistErr("LoadExpenses", s.path(expensesFile), err)
			}
			items = append(items, item)
		}
		out[period] = items
	}
	return out, nil
}

// SaveExpenses writes the recorded expenses with periods in chronological
// order.
func (s *Store) SaveExpenses(byPeriod map[calendar.Period][]models.ExpenseItem) error {
	doc := make(expensesDoc, len(byPeriod))
	for period, items := range byPeriod {
		itemDocs := make([]expenseItemDoc, 0, len(items))
		for _, item := range items {
			itemDocs = append(itemDocs, expenseItemToDoc(item))
		}
		doc[period.String()] = itemDocs
	}
	return s.writeYAML(expensesFile, doc)
}

// LoadRateCache reads the persisted rate cache. Missing file means an empty
// cache; malformed content is a persistence error, never silently dropped.
func (s *Store) LoadRateCache() (fx.Snapshot, error) {
	doc := ratesDoc{}
	if err := s.readYAML(ratesFile, &doc, false); err != nil {
		return nil, err
	}
	snapshot, err := doc.toSnapshot()
	if err != nil {
		return nil, persistErr("LoadRateCache", s.path(ratesFile), err)
	}
	return snapshot, nil
}

// SaveRateCache writes the rate cache snapshot.
func (s *Store) SaveRateCache(snapshot fx.Snapshot) error {
	return s.writeYAML(ratesFile, snapshotToDoc(snapshot))
}

// Validate checks that every required file parses and validates.
func (s *Store) Validate() error {
	if _, err := s.LoadRecords(); err != nil {
		return err
	}
	if _, err := s.LoadLedger(); err != nil {
		return err
	}
	if _, err := s.LoadExpenses(); err != nil {
		return err
	}
	_, err := s.LoadRateCache()
	return err
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// readYAML reads one document. When required is false a missing file
// leaves the target untouched.
func (s *Store) readYAML(name string, target interface{}, required bool) error {
	const op = "Load"
	path := s.path(name)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if !required {
				return nil
			}
			return persistErr(op, path, fmt.Errorf("%w: run `invo init`", ErrNotInitialized))
		}
		return persistErr(op, path, err)
	}
	if err := yaml.Unmarshal(raw, target); err != nil {
		return persistErr(op, path, err)
	}
	return nil
}

// writeYAML writes one document atomically: to a temp file in the same
// directory, then rename.
func (s *Store) writeYAML(name string, doc interface{}) error {
	const op = "Save"
	path := s.path(name)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return persistErr(op, path, err)
	}
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return persistErr(op, path, err)
	}
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return persistErr(op, path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return persistErr(op, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return persistErr(op, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return persistErr(op, path, err)
	}
	return nil
}
