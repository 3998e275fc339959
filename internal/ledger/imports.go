package ledger

import (
	"fmt"
	"time"

	"github.com/ramazansancar/stock-cost-calculator/internal/models"
	"github.com/ramazansancar/stock-cost-calculator/internal/snapshot"

	"github.com/pkg/errors"
)

type Mode string

const (
	ModeReplace Mode = "replace"
	ModeAppend  Mode = "append"
	ModeView    Mode = "view"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeReplace, ModeAppend, ModeView:
		return Mode(s), nil
	case "":
		return ModeReplace, nil
	default:
		return "", errors.Wrapf(ErrUnknownImportMode, "%q", s)
	}
}

const (
	SourceText = "text"
	SourceFile = "file"
	SourceURL  = "url"
)

// PendingImport is a staged replace waiting for a yes/no answer.
type PendingImport struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profileId"`
	Owner     string    `json:"owner"`
	Source    string    `json:"source"`
	Existing  int       `json:"existing"`
	Incoming  int       `json:"incoming"`
	CreatedAt time.Time `json:"createdAt"`

	transactions []models.Transaction
	log          *models.ImportLog
}

func (p *PendingImport) Prompt() string {
	return fmt.Sprintf("This replaces %d existing transactions with %d incoming transactions. Continue? (yes/no)",
		p.Existing, p.Incoming)
}

type ImportResult struct {
	Mode     Mode            `json:"mode"`
	Applied  bool            `json:"applied"`
	Imported int             `json:"imported"`
	Pending  *PendingImport  `json:"pending,omitempty"`
	Profile  *models.Profile `json:"profile,omitempty"`
}

// ImportReplace swaps the active log for transactions. A non-empty log is
// not touched; the import is staged and returned for confirmation instead.
func (l *Ledger) ImportReplace(transactions []models.Transaction) (*PendingImport, error) {
	return l.importReplace(transactions, "", SourceText)
}

func (l *Ledger) importReplace(transactions []models.Transaction, owner, source string) (*PendingImport, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing := l.profiles.ActiveTransactions()
	entry := l.newLog(ModeReplace, source, owner, len(existing), len(transactions))

	if len(existing) == 0 {
		if err := l.commit(clone(transactions)); err != nil {
			l.finishLog(entry, models.ImportStatusFailed, err.Error())
			return nil, err
		}
		l.finishLog(entry, models.ImportStatusApplied, "")
		l.logger.Info("import applied", "mode", ModeReplace, "incoming", len(transactions))
		return nil, nil
	}

	if l.pending != nil {
		l.finishLog(l.pending.log, models.ImportStatusCancelled, "superseded by a newer import")
	}
	l.pending = &PendingImport{
		ID:           l.ids.New(),
		ProfileID:    l.profiles.ActiveID(),
		Owner:        owner,
		Source:       source,
		Existing:     len(existing),
		Incoming:     len(transactions),
		CreatedAt:    l.now(),
		transactions: clone(transactions),
		log:          entry,
	}
	l.finishLog(entry, models.ImportStatusStaged, "")
	l.logger.Info("import staged", "pending_id", l.pending.ID,
		"existing", len(existing), "incoming", len(transactions))
	return l.pending, nil
}

// Pending returns the staged replace, if any.
func (l *Ledger) Pending() *PendingImport {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

// Confirm applies the staged replace with the given id.
func (l *Ledger) Confirm(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.takePending(id)
	if err != nil {
		return err
	}
	if p.ProfileID != l.profiles.ActiveID() {
		l.finishLog(p.log, models.ImportStatusCancelled, ErrStaleImport.Error())
		return ErrStaleImport
	}
	if err := l.commit(p.transactions); err != nil {
		l.finishLog(p.log, models.ImportStatusFailed, err.Error())
		return err
	}
	l.finishLog(p.log, models.ImportStatusApplied, "confirmed")
	l.logger.Info("import confirmed", "pending_id", id, "incoming", p.Incoming)
	return nil
}

// Reject drops the staged replace, leaving the log unchanged.
func (l *Ledger) Reject(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.takePending(id)
	if err != nil {
		return err
	}
	l.finishLog(p.log, models.ImportStatusRejected, "rejected")
	l.logger.Info("import rejected", "pending_id", id)
	return nil
}

func (l *Ledger) takePending(id string) (*PendingImport, error) {
	if l.pending == nil || l.pending.ID != id {
		return nil, errors.Wrapf(ErrNoPendingImport, "id %s", id)
	}
	p := l.pending
	l.pending = nil
	return p, nil
}

// ImportAppend concatenates transactions onto the active log.
func (l *Ledger) ImportAppend(transactions []models.Transaction) error {
	return l.importAppend(transactions, "", SourceText)
}

func (l *Ledger) importAppend(transactions []models.Transaction, owner, source string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing := l.profiles.ActiveTransactions()
	entry := l.newLog(ModeAppend, source, owner, len(existing), len(transactions))
	if err := l.commit(append(existing, transactions...)); err != nil {
		l.finishLog(entry, models.ImportStatusFailed, err.Error())
		return err
	}
	l.finishLog(entry, models.ImportStatusApplied, "")
	l.logger.Info("import applied", "mode", ModeAppend, "incoming", len(transactions))
	return nil
}

// ImportView stores transactions as the profile of ownerID and switches to
// it. The previously active log is left as it was.
func (l *Ledger) ImportView(ownerID string, transactions []models.Transaction) (models.Profile, error) {
	return l.importView(ownerID, transactions, SourceText)
}

func (l *Ledger) importView(ownerID string, transactions []models.Transaction, source string) (models.Profile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := l.newLog(ModeView, source, ownerID, len(l.profiles.ActiveTransactions()), len(transactions))
	if ownerID == l.profiles.OwnerID() {
		l.finishLog(entry, models.ImportStatusRejected, ErrViewOwnProfile.Error())
		return models.Profile{}, ErrViewOwnProfile
	}

	p, err := l.profiles.AddProfile(ownerID, transactions)
	if err != nil {
		l.finishLog(entry, models.ImportStatusFailed, err.Error())
		return models.Profile{}, err
	}
	l.notify(l.profiles.SwitchProfile(ownerID))
	l.finishLog(entry, models.ImportStatusApplied, "")
	l.logger.Info("import opened as profile", "profile_id", ownerID, "incoming", len(transactions))
	return p, nil
}

// Import decodes payload and dispatches it by mode. Nothing is mutated when
// the payload fails validation.
func (l *Ledger) Import(payload string, mode Mode, source string) (ImportResult, error) {
	res := ImportResult{Mode: mode}

	s, err := snapshot.Decode(payload)
	if err != nil {
		l.mu.Lock()
		l.finishLog(l.newLog(mode, source, "", len(l.profiles.ActiveTransactions()), 0), models.ImportStatusFailed, err.Error())
		l.mu.Unlock()
		l.logger.Warn("import rejected", "mode", mode, "source", source, "error", err)
		return res, err
	}

	switch mode {
	case ModeReplace:
		pending, err := l.importReplace(s.Transactions, s.User, source)
		if err != nil {
			return res, err
		}
		res.Pending = pending
		res.Applied = pending == nil
	case ModeAppend:
		if err := l.importAppend(s.Transactions, s.User, source); err != nil {
			return res, err
		}
		res.Applied = true
	case ModeView:
		p, err := l.importView(s.User, s.Transactions, source)
		if err != nil {
			return res, err
		}
		res.Applied = true
		res.Profile = &p
	default:
		return res, errors.Wrapf(ErrUnknownImportMode, "%q", mode)
	}
	if res.Applied {
		res.Imported = len(s.Transactions)
	}
	return res, nil
}

// Export builds the snapshot of the active profile.
func (l *Ledger) Export() snapshot.Snapshot {
	return snapshot.New(l.profiles.ActiveID(), l.profiles.ActiveTransactions(), l.now())
}

// AcceptShared reads a share link. When its owner is not the active profile
// the snapshot is stored as a profile without switching to it. A link to the
// owner's own log is refused while another profile is active. The returned
// URL has the shared data stripped.
func (l *Ledger) AcceptShared(rawURL string) (*models.Profile, string, error) {
	s, cleaned, err := snapshot.ParseAndClear(rawURL)
	if err != nil {
		return nil, cleaned, err
	}
	if s.User == l.profiles.ActiveID() {
		return nil, cleaned, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := l.newLog(ModeView, SourceURL, s.User, 0, len(s.Transactions))
	if s.User == l.profiles.OwnerID() {
		l.finishLog(entry, models.ImportStatusRejected, ErrViewOwnProfile.Error())
		return nil, cleaned, ErrViewOwnProfile
	}
	p, err := l.profiles.AddProfile(s.User, s.Transactions)
	if err != nil {
		l.finishLog(entry, models.ImportStatusFailed, err.Error())
		return nil, cleaned, err
	}
	l.finishLog(entry, models.ImportStatusApplied, "shared link")
	l.logger.Info("shared profile added", "profile_id", s.User, "transactions", len(s.Transactions))
	return &p, cleaned, nil
}

func (l *Ledger) newLog(mode Mode, source, owner string, existing, incoming int) *models.ImportLog {
	if l.recorder == nil {
		return nil
	}
	entry := &models.ImportLog{
		Mode:          string(mode),
		Source:        source,
		Owner:         owner,
		ExistingCount: existing,
		IncomingCount: incoming,
	}
	return entry
}

// finishLog writes entry with its final status. Recorder failures are logged
// and never fail the import itself.
func (l *Ledger) finishLog(entry *models.ImportLog, status, message string) {
	if l.recorder == nil || entry == nil {
		return
	}
	entry.Status = status
	entry.Message = message

	var err error
	if entry.ID == 0 {
		err = l.recorder.CreateImportLog(entry)
	} else {
		err = l.recorder.UpdateImportLog(entry)
	}
	if err != nil {
		l.logger.Error("failed to record import", "mode", entry.Mode, "status", status, "error", err)
	}
}

func clone(transactions []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(transactions))
	copy(out, transactions)
	return out
}
