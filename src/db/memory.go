package db

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MemoryStore is the Store implementation the test suites swap in through
// NewStore. It keeps collections as bson maps and understands the filter
// and pipeline subset the application uses: equality, $in, $gte, $gt, $lt,
// and $match/$group stages with $sum and $avg accumulators.
type MemoryStore struct {
	mu    sync.RWMutex
	colls map[string][]bson.M

	// Induced failures keyed by collection name, for exercising the
	// settlement failure branches.
	FailInsert map[string]error
	FailUpdate map[string]error
	FailDelete map[string]error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		colls:      make(map[string][]bson.M),
		FailInsert: make(map[string]error),
		FailUpdate: make(map[string]error),
		FailDelete: make(map[string]error),
	}
}

func (m *MemoryStore) InsertOne(ctx context.Context, coll string, doc any) (string, error) {
	if err := m.FailInsert[coll]; err != nil {
		return "", err
	}
	d, err := toDoc(doc)
	if err != nil {
		return "", err
	}
	id, ok := d["_id"].(primitive.ObjectID)
	if !ok || id.IsZero() {
		id = primitive.NewObjectID()
		d["_id"] = id
	}
	m.mu.Lock()
	m.colls[coll] = append(m.colls[coll], d)
	m.mu.Unlock()
	return id.Hex(), nil
}

func (m *MemoryStore) FindOne(ctx context.Context, coll string, filter bson.M, out any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.colls[coll] {
		if matchFilter(d, filter) {
			raw, err := bson.Marshal(d)
			if err != nil {
				return err
			}
			return bson.Unmarshal(raw, out)
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) Find(ctx context.Context, coll string, filter bson.M, out any) error {
	m.mu.RLock()
	var matched []bson.M
	for _, d := range m.colls[coll] {
		if matchFilter(d, filter) {
			matched = append(matched, d)
		}
	}
	m.mu.RUnlock()
	return decodeAll(matched, out)
}

func (m *MemoryStore) UpdateOne(ctx context.Context, coll string, filter bson.M, update bson.M) (int64, error) {
	if err := m.FailUpdate[coll]; err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.colls[coll] {
		if matchFilter(d, filter) {
			if set, ok := update["$set"].(bson.M); ok {
				for k, v := range set {
					d[k] = v
				}
			}
			return 1, nil
		}
	}
	return 0, nil
}

func (m *MemoryStore) DeleteOne(ctx context.Context, coll string, filter bson.M) (int64, error) {
	return m.delete(coll, filter, true)
}

func (m *MemoryStore) DeleteMany(ctx context.Context, coll string, filter bson.M) (int64, error) {
	return m.delete(coll, filter, false)
}

func (m *MemoryStore) delete(coll string, filter bson.M, single bool) (int64, error) {
	if err := m.FailDelete[coll]; err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []bson.M
	var deleted int64
	for _, d := range m.colls[coll] {
		if matchFilter(d, filter) && (!single || deleted == 0) {
			deleted++
			continue
		}
		kept = append(kept, d)
	}
	m.colls[coll] = kept
	return deleted, nil
}

func (m *MemoryStore) CountDocuments(ctx context.Context, coll string, filter bson.M) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, d := range m.colls[coll] {
		if matchFilter(d, filter) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) EstimatedCount(ctx context.Context, coll string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.colls[coll])), nil
}

func (m *MemoryStore) Aggregate(ctx context.Context, coll string, pipeline mongo.Pipeline, out any) error {
	m.mu.RLock()
	docs := append([]bson.M(nil), m.colls[coll]...)
	m.mu.RUnlock()
	for _, stage := range pipeline {
		if len(stage) != 1 {
			return errors.New("memory store: unsupported pipeline stage shape")
		}
		op := stage[0]
		switch op.Key {
		case "$match":
			filter, err := toFilter(op.Value)
			if err != nil {
				return err
			}
			var matched []bson.M
			for _, d := range docs {
				if matchFilter(d, filter) {
					matched = append(matched, d)
				}
			}
			docs = matched
		case "$group":
			spec, err := toFilter(op.Value)
			if err != nil {
				return err
			}
			docs = groupDocs(docs, spec)
		default:
			return errors.New("memory store: unsupported pipeline operator " + op.Key)
		}
	}
	return decodeAll(docs, out)
}

// groupDocs implements $group with _id:null and $sum/$avg accumulators,
// mirroring mongo's behavior of emitting nothing for an empty input set.
func groupDocs(docs []bson.M, spec bson.M) []bson.M {
	if len(docs) == 0 {
		return nil
	}
	result := bson.M{"_id": nil}
	for k, v := range spec {
		if k == "_id" {
			continue
		}
		acc, err := toFilter(v)
		if err != nil {
			continue
		}
		if expr, ok := acc["$sum"]; ok {
			result[k] = accumulate(docs, expr, false)
		} else if expr, ok := acc["$avg"]; ok {
			result[k] = accumulate(docs, expr, true)
		}
	}
	return []bson.M{result}
}

func accumulate(docs []bson.M, expr any, avg bool) float64 {
	var total float64
	for _, d := range docs {
		if field, ok := expr.(string); ok && len(field) > 1 && field[0] == '$' {
			if n, ok := toFloat(d[field[1:]]); ok {
				total += n
			}
		} else if n, ok := toFloat(expr); ok {
			total += n
		}
	}
	if avg {
		return total / float64(len(docs))
	}
	return total
}

func matchFilter(doc, filter bson.M) bool {
	for k, want := range filter {
		got := normalize(doc[k])
		if ops, err := toFilter(want); err == nil && hasOperator(ops) {
			if !matchOperators(got, ops) {
				return false
			}
			continue
		}
		if !equalValues(got, normalize(want)) {
			return false
		}
	}
	return true
}

func hasOperator(m bson.M) bool {
	for k := range m {
		if len(k) > 0 && k[0] == '$' {
			return true
		}
	}
	return false
}

func matchOperators(got any, ops bson.M) bool {
	for op, arg := range ops {
		switch op {
		case "$in":
			rv := reflect.ValueOf(arg)
			if rv.Kind() != reflect.Slice {
				return false
			}
			found := false
			for i := 0; i < rv.Len(); i++ {
				if equalValues(got, normalize(rv.Index(i).Interface())) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case "$gte":
			if compareValues(got, normalize(arg)) < 0 {
				return false
			}
		case "$gt":
			if compareValues(got, normalize(arg)) <= 0 {
				return false
			}
		case "$lt":
			if compareValues(got, normalize(arg)) >= 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// normalize collapses the value shapes a bson round trip produces so typed
// strings, numeric widths, and DateTime/Time compare cleanly.
func normalize(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case time.Time:
		return t.UTC()
	case primitive.ObjectID:
		return t
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return v
}

func equalValues(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return -1
		}
		switch {
		case av.Before(bv):
			return -1
		case av.After(bv):
			return 1
		}
		return 0
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return -1
		}
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case string:
		bv, ok := b.(string)
		if !ok {
			return -1
		}
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	}
	return -1
}

func toDoc(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var d bson.M
	if err := bson.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return d, nil
}

func toFilter(v any) (bson.M, error) {
	switch t := v.(type) {
	case bson.M:
		return t, nil
	case bson.D:
		return t.Map(), nil
	case map[string]any:
		return bson.M(t), nil
	}
	return nil, errors.New("memory store: unsupported filter shape")
}

func toFloat(v any) (float64, bool) {
	n, ok := normalize(v).(float64)
	return n, ok
}

func decodeAll(docs []bson.M, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return errors.New("memory store: out must be a pointer to a slice")
	}
	sl := rv.Elem()
	sl.Set(reflect.MakeSlice(sl.Type(), 0, len(docs)))
	for _, d := range docs {
		raw, err := bson.Marshal(d)
		if err != nil {
			return err
		}
		elem := reflect.New(sl.Type().Elem())
		if err := bson.Unmarshal(raw, elem.Interface()); err != nil {
			return err
		}
		sl.Set(reflect.Append(sl, elem.Elem()))
	}
	return nil
}
