package profile

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Category groups shop items.
type Category string

const (
	CategoryBackground Category = "background"
	CategorySkin       Category = "skin"
)

// ParseCategory accepts the category names and the short forms "bg" and "skins".
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "background", "backgrounds", "bg":
		return CategoryBackground, true
	case "skin", "skins":
		return CategorySkin, true
	}
	return "", false
}

// Item is a cosmetic the player can buy and select.
type Item struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Price    int      `json:"price"`
}

const itemPrice = 100

var catalog = map[Category][]Item{
	CategoryBackground: {
		{Name: "bg1", Category: CategoryBackground, Price: itemPrice},
		{Name: "bg2", Category: CategoryBackground, Price: itemPrice},
		{Name: "bg3", Category: CategoryBackground, Price: itemPrice},
	},
	CategorySkin: {
		{Name: "skin1", Category: CategorySkin, Price: itemPrice},
		{Name: "skin2", Category: CategorySkin, Price: itemPrice},
		{Name: "skin3", Category: CategorySkin, Price: itemPrice},
		{Name: "skin4", Category: CategorySkin, Price: itemPrice},
	},
}

// Shop sells backgrounds and skins. The first item of every category is owned
// and selected until the player picks another.
type Shop struct {
	store  *Store
	ledger *Ledger
}

// NewShop returns a shop persisted in s that pays through l.
func NewShop(s *Store, l *Ledger) *Shop { return &Shop{store: s, ledger: l} }

// Items lists the catalog for one category.
func (s *Shop) Items(cat Category) []Item { return slices.Clone(catalog[cat]) }

// Lookup finds an item by name in any category.
func (s *Shop) Lookup(name string) (Item, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, cat := range []Category{CategoryBackground, CategorySkin} {
		for _, it := range catalog[cat] {
			if it.Name == name {
				return it, true
			}
		}
	}
	return Item{}, false
}

func ownedKey(cat Category) string   { return "shop.owned." + string(cat) }
func currentKey(cat Category) string { return "shop.current." + string(cat) }

// getter is satisfied by *Store and *Tx.
type getter interface {
	Get(ctx context.Context, key string, v any) (bool, error)
}

func owned(ctx context.Context, g getter, cat Category) ([]string, error) {
	items := catalog[cat]
	if len(items) == 0 {
		return nil, nil
	}
	names := []string{items[0].Name}
	if _, err := g.Get(ctx, ownedKey(cat), &names); err != nil {
		return nil, err
	}
	return names, nil
}

// IsPurchased reports whether the player owns item.
func (s *Shop) IsPurchased(ctx context.Context, item Item) (bool, error) {
	names, err := owned(ctx, s.store, item.Category)
	if err != nil {
		return false, err
	}
	return slices.Contains(names, item.Name), nil
}

// Current returns the selected item of a category.
func (s *Shop) Current(ctx context.Context, cat Category) (Item, error) {
	items := catalog[cat]
	if len(items) == 0 {
		return Item{}, fmt.Errorf("category %q: %w", cat, ErrUnknownItem)
	}
	name := items[0].Name
	if _, err := s.store.Get(ctx, currentKey(cat), &name); err != nil {
		return Item{}, err
	}
	it, ok := s.Lookup(name)
	if !ok || it.Category != cat {
		return items[0], nil
	}
	return it, nil
}

// IsCurrent reports whether item is the selected one in its category.
func (s *Shop) IsCurrent(ctx context.Context, item Item) (bool, error) {
	cur, err := s.Current(ctx, item.Category)
	if err != nil {
		return false, err
	}
	return cur.Name == item.Name, nil
}

// IsMoneyEnough reports whether the balance covers the item's price.
func (s *Shop) IsMoneyEnough(ctx context.Context, item Item) (bool, error) {
	coins, err := s.ledger.Balance(ctx)
	if err != nil {
		return false, err
	}
	return coins >= item.Price, nil
}

// SelectOrBuy selects an owned item, or buys and selects one the player can
// afford. The debit and both writes commit together; nothing changes when
// the balance is too low or a write fails.
func (s *Shop) SelectOrBuy(ctx context.Context, name string) (Item, error) {
	it, ok := s.Lookup(name)
	if !ok {
		return Item{}, fmt.Errorf("%q: %w", name, ErrUnknownItem)
	}
	err := s.ledger.update(ctx, func(tx *Tx) error {
		names, err := owned(ctx, tx, it.Category)
		if err != nil {
			return err
		}
		if !slices.Contains(names, it.Name) {
			if _, err := debit(ctx, tx, it.Price); err != nil {
				if errors.Is(err, ErrInsufficientFunds) {
					return fmt.Errorf("buy %s: %w", it.Name, ErrInsufficientFunds)
				}
				return err
			}
			names = append(names, it.Name)
			if err := tx.Put(ctx, ownedKey(it.Category), names); err != nil {
				return err
			}
		}
		return tx.Put(ctx, currentKey(it.Category), it.Name)
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			return it, err
		}
		return Item{}, err
	}
	return it, nil
}
