package contact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/buntdb"
)

const inquiryTable = "inquiries"

var ErrNotFound = errors.New("inquiry not found")

// Inquiry is a stored form submission
type Inquiry struct {
	ID       string `json:"id"`
	Received int64  `json:"received"` // unix nanoseconds, UTC
	FormData
}

func (q *Inquiry) ReceivedAt() time.Time { return time.Unix(0, q.Received).UTC() }

// Inbox keeps inquiries in a buntdb file. Use ":memory:" for tests.
type Inbox struct {
	db  *buntdb.DB
	now func() time.Time
}

func OpenInbox(path string) (*Inbox, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open inbox %s: %w", path, err)
	}
	if err := db.CreateIndex("inquiries_received", inquiryTable+":*", buntdb.IndexJSON("received")); err != nil {
		db.Close()
		return nil, fmt.Errorf("index inbox: %w", err)
	}
	return &Inbox{db: db, now: time.Now}, nil
}

func (b *Inbox) Submit(ctx context.Context, d FormData) error {
	_, err := b.Store(d)
	return err
}

// Store saves d under a fresh id
func (b *Inbox) Store(d FormData) (*Inquiry, error) {
	q := &Inquiry{ID: uuid.NewString(), Received: b.now().UnixNano(), FormData: d}
	jf, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	err = b.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(inquiryTable+":"+q.ID, string(jf), nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("store inquiry: %w", err)
	}
	return q, nil
}

func (b *Inbox) Get(id string) (*Inquiry, error) {
	var q Inquiry
	err := b.db.View(func(tx *buntdb.Tx) error {
		val, err := tx.Get(inquiryTable + ":" + id)
		if errors.Is(err, buntdb.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(val), &q)
	})
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// List returns every inquiry, oldest first
func (b *Inbox) List() ([]*Inquiry, error) {
	out := []*Inquiry{}
	err := b.db.View(func(tx *buntdb.Tx) error {
		return tx.Ascend("inquiries_received", func(key, val string) bool {
			q := &Inquiry{}
			if err := json.Unmarshal([]byte(val), q); err == nil {
				out = append(out, q)
			}
			return true
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Inbox) Delete(id string) error {
	return b.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(inquiryTable + ":" + id)
		if errors.Is(err, buntdb.ErrNotFound) {
			return ErrNotFound
		}
		return err
	})
}

func (b *Inbox) Close() error {
	return b.db.Close()
}
