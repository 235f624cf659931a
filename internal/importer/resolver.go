package importer

import (
	"context"
)

type accountStore interface {
	GetOrCreate(ctx context.Context, name string, accountType string) (int64, error)
}

type categoryStore interface {
	GetOrCreate(ctx context.Context, name string, categoryType string) (int64, error)
}

type tagStore interface {
	GetOrCreate(ctx context.Context, name string) (int64, error)
}

type categoryKey struct {
	name         string
	categoryType string
}

// DimensionResolver maps account, category and tag names to ids, creating
// rows on first reference. It must be built on the writers of the load's own
// transaction and discarded with it: the memo holds ids that only exist
// until that transaction ends.
type DimensionResolver struct {
	accounts           accountStore
	categories         categoryStore
	tags               tagStore
	defaultAccountType string

	accountIDs  map[string]int64
	categoryIDs map[categoryKey]int64
	tagIDs      map[string]int64
}

func NewDimensionResolver(
	accounts accountStore,
	categories categoryStore,
	tags tagStore,
	defaultAccountType string,
) *DimensionResolver {
	return &DimensionResolver{
		accounts:           accounts,
		categories:         categories,
		tags:               tags,
		defaultAccountType: defaultAccountType,
		accountIDs:         make(map[string]int64),
		categoryIDs:        make(map[categoryKey]int64),
		tagIDs:             make(map[string]int64),
	}
}

// Account resolves name, creating the account with the default type.
func (r *DimensionResolver) Account(ctx context.Context, name string) (int64, error) {
	if id, ok := r.accountIDs[name]; ok {
		return id, nil
	}
	id, err := r.accounts.GetOrCreate(ctx, name, r.defaultAccountType)
	if err != nil {
		return 0, storeError("resolve account "+name, err)
	}
	r.accountIDs[name] = id
	return id, nil
}

func (r *DimensionResolver) Category(ctx context.Context, name string, categoryType string) (int64, error) {
	key := categoryKey{name: name, categoryType: categoryType}
	if id, ok := r.categoryIDs[key]; ok {
		return id, nil
	}
	id, err := r.categories.GetOrCreate(ctx, name, categoryType)
	if err != nil {
		return 0, storeError("resolve category "+name, err)
	}
	r.categoryIDs[key] = id
	return id, nil
}

// Tags resolves names in order.
func (r *DimensionResolver) Tags(ctx context.Context, names []string) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, ok := r.tagIDs[name]
		if !ok {
			var err error
			id, err = r.tags.GetOrCreate(ctx, name)
			if err != nil {
				return nil, storeError("resolve tag "+name, err)
			}
			r.tagIDs[name] = id
		}
		ids = append(ids, id)
	}
	return ids, nil
}
