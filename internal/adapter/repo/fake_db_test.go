package repo

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"pawsconnect/internal/domain"
	"pawsconnect/internal/infra"
	"pawsconnect/internal/sqlinline"
)

// memState is the table contents a fakeDB serves. InTx works on a copy and
// only publishes it on commit.
type memState struct {
	campaigns map[int64]domain.Campaign
	donations map[int64]domain.Donation
	profiles  map[string]domain.Profile
	adoptions map[int64]domain.Adoption
	adopted   map[int64]bool
	forums    map[string]int
	outbox    []string
	nextID    int64
}

func newMemState() *memState {
	return &memState{
		campaigns: map[int64]domain.Campaign{},
		donations: map[int64]domain.Donation{},
		profiles:  map[string]domain.Profile{},
		adoptions: map[int64]domain.Adoption{},
		adopted:   map[int64]bool{},
		forums:    map[string]int{},
		nextID:    100,
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.campaigns {
		c.campaigns[k] = v
	}
	for k, v := range s.donations {
		c.donations[k] = v
	}
	for k, v := range s.profiles {
		c.profiles[k] = v
	}
	for k, v := range s.adoptions {
		c.adoptions[k] = v
	}
	for k, v := range s.adopted {
		c.adopted[k] = v
	}
	for k, v := range s.forums {
		c.forums[k] = v
	}
	c.outbox = append([]string(nil), s.outbox...)
	c.nextID = s.nextID
	return c
}

func (s *memState) hasKey(key string) bool {
	for _, k := range s.outbox {
		if k == key {
			return true
		}
	}
	return false
}

type fakeDB struct {
	state *memState
	now   time.Time

	failExec     map[string]error
	failInsert   error
	statements   []string
	commits      int
	rollbacks    int
	campaignRows int64
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		state:    newMemState(),
		now:      time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		failExec: map[string]error{},
	}
}

func (f *fakeDB) InTx(ctx context.Context, fn func(q infra.SQLExecutor) error) error {
	tx := &fakeDB{state: f.state.clone(), now: f.now, failExec: f.failExec, failInsert: f.failInsert, campaignRows: f.campaignRows}
	err := fn(tx)
	f.statements = append(f.statements, tx.statements...)
	if err != nil {
		f.rollbacks++
		return err
	}
	f.commits++
	f.state = tx.state
	return nil
}

func (f *fakeDB) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	f.statements = append(f.statements, query)
	if err := f.failExec[query]; err != nil {
		return pgconn.CommandTag{}, err
	}
	switch query {
	case sqlinline.QDeleteDonation:
		id := args[0].(int64)
		if _, ok := f.state.donations[id]; !ok {
			return pgconn.NewCommandTag("DELETE 0"), nil
		}
		delete(f.state.donations, id)
		return pgconn.NewCommandTag("DELETE 1"), nil
	case sqlinline.QUpdateCampaignTotals:
		id := args[0].(int64)
		c, ok := f.state.campaigns[id]
		if !ok {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		}
		c.RaisedAmount = args[1].(decimal.Decimal)
		c.Status = domain.CampaignStatus(args[2].(string))
		c.UpdatedAt = f.now
		f.state.campaigns[id] = c
		return pgconn.NewCommandTag("UPDATE 1"), nil
	case sqlinline.QEnqueueOutbox:
		key := args[0].(string)
		if f.state.hasKey(key) {
			return pgconn.NewCommandTag("INSERT 0 0"), nil
		}
		f.state.outbox = append(f.state.outbox, key)
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case sqlinline.QJoinDefaultForums:
		f.state.forums[args[0].(string)]++
		return pgconn.NewCommandTag("INSERT 0 2"), nil
	case sqlinline.QMarkPetAdopted:
		f.state.adopted[args[0].(int64)] = true
		return pgconn.NewCommandTag("UPDATE 1"), nil
	case sqlinline.QReconcileAllCampaigns:
		return pgconn.NewCommandTag(fmt.Sprintf("UPDATE %d", f.campaignRows)), nil
	}
	return pgconn.CommandTag{}, fmt.Errorf("unexpected exec: %s", query)
}

func (f *fakeDB) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	f.statements = append(f.statements, query)
	switch query {
	case sqlinline.QSelectDonationForUpdate:
		d, ok := f.state.donations[args[0].(int64)]
		if !ok {
			return valuesRow{err: pgx.ErrNoRows}
		}
		return donationRow(d)
	case sqlinline.QSelectCampaignForUpdate, sqlinline.QSelectCampaignByID:
		c, ok := f.state.campaigns[args[0].(int64)]
		if !ok {
			return valuesRow{err: pgx.ErrNoRows}
		}
		return campaignRow(c)
	case sqlinline.QUpdateCampaignStatus:
		id := args[0].(int64)
		c := f.state.campaigns[id]
		c.Status = domain.CampaignStatus(args[1].(string))
		c.UpdatedAt = f.now
		f.state.campaigns[id] = c
		return campaignRow(c)
	case sqlinline.QInsertDonation:
		if f.failInsert != nil {
			return valuesRow{err: f.failInsert}
		}
		f.state.nextID++
		campaignID := args[1].(int64)
		donor := args[2].(string)
		d := domain.Donation{
			ID:              f.state.nextID,
			Amount:          args[0].(decimal.Decimal),
			Fundraising:     &campaignID,
			Message:         args[3].(string),
			DonatedAt:       f.now,
			Screenshot:      args[5].(string),
			IsAnonymous:     args[6].(bool),
			ReferenceNumber: args[7].(string),
		}
		if donor != "" {
			d.Donor = &donor
		}
		f.state.donations[d.ID] = d
		return donationRow(d)
	case sqlinline.QSelectProfileForUpdate:
		p, ok := f.state.profiles[args[0].(string)]
		if !ok {
			return valuesRow{err: pgx.ErrNoRows}
		}
		return profileRow(p)
	case sqlinline.QUpdateVerification:
		id := args[0].(string)
		p := f.state.profiles[id]
		p.VerificationStatus = domain.VerificationStatus(args[1].(string))
		p.UpdatedAt = f.now
		f.state.profiles[id] = p
		return profileRow(p)
	case sqlinline.QSelectAdoptionForUpdate:
		a, ok := f.state.adoptions[args[0].(int64)]
		if !ok {
			return valuesRow{err: pgx.ErrNoRows}
		}
		return valuesRow{vals: []any{a.ID, a.PetID, a.PetName, a.ApplicantID, a.Status, a.RejectionReason, a.UpdatedAt}}
	case sqlinline.QUpdateAdoptionStatus:
		id := args[0].(int64)
		a := f.state.adoptions[id]
		a.Status = domain.AdoptionStatus(args[1].(string))
		a.RejectionReason = args[2].(string)
		a.UpdatedAt = f.now
		f.state.adoptions[id] = a
		return valuesRow{vals: []any{f.now}}
	}
	return valuesRow{err: fmt.Errorf("unexpected query row: %s", query)}
}

func (f *fakeDB) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	f.statements = append(f.statements, query)
	switch query {
	case sqlinline.QRejectCompetingAdoptions:
		pet, exclude, reason := args[0].(int64), args[1].(int64), args[2].(string)
		var out [][]any
		for id, a := range f.state.adoptions {
			if a.PetID != pet || id == exclude || a.Status != domain.AdoptionPending {
				continue
			}
			a.Status = domain.AdoptionRejected
			a.RejectionReason = reason
			a.UpdatedAt = f.now
			f.state.adoptions[id] = a
			out = append(out, []any{a.ID, a.ApplicantID, a.UpdatedAt})
		}
		return &valuesRows{rows: out}, nil
	}
	return nil, fmt.Errorf("unexpected query: %s", query)
}

func (f *fakeDB) executed(query string) int {
	n := 0
	for _, s := range f.statements {
		if s == query {
			n++
		}
	}
	return n
}

func campaignRow(c domain.Campaign) valuesRow {
	return valuesRow{vals: []any{c.ID, c.Title, c.Description, c.TargetAmount, c.RaisedAmount, c.Status, c.CreatedBy, c.Images, c.EndDate, c.CreatedAt, c.UpdatedAt}}
}

func donationRow(d domain.Donation) valuesRow {
	return valuesRow{vals: []any{d.ID, d.Amount, d.Fundraising, d.Donor, d.Message, d.DonatedAt, d.Screenshot, d.IsAnonymous, d.ReferenceNumber}}
}

func profileRow(p domain.Profile) valuesRow {
	return valuesRow{vals: []any{p.ID, p.Email, p.FullName, p.Role, p.VerificationStatus, p.PushToken, p.Locale, p.UpdatedAt}}
}

// valuesRow assigns vals to the scan destinations by position.
type valuesRow struct {
	vals []any
	err  error
}

func (r valuesRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(dest, r.vals)
}

func assign(dest, vals []any) error {
	if len(dest) != len(vals) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(vals))
	}
	for i := range dest {
		target := reflect.ValueOf(dest[i]).Elem()
		v := reflect.ValueOf(vals[i])
		if !v.IsValid() {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		if !v.Type().AssignableTo(target.Type()) {
			if !v.Type().ConvertibleTo(target.Type()) {
				return fmt.Errorf("scan: column %d: cannot assign %s to %s", i, v.Type(), target.Type())
			}
			v = v.Convert(target.Type())
		}
		target.Set(v)
	}
	return nil
}

type valuesRows struct {
	rows [][]any
	idx  int
}

func (r *valuesRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *valuesRows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.rows) {
		return pgx.ErrNoRows
	}
	return assign(dest, r.rows[r.idx-1])
}

func (r *valuesRows) Close() {}
func (r *valuesRows) Err() error { return nil }
func (r *valuesRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *valuesRows) Conn() *pgx.Conn { return nil }
func (r *valuesRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *valuesRows) Values() ([]any, error) { return nil, fmt.Errorf("values not supported") }
func (r *valuesRows) RawValues() [][]byte { return nil }

var _ infra.DB = (*fakeDB)(nil)
