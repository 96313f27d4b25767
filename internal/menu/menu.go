// Package menu routes menu selections to canvas operations.
//
// Each item runs exactly one operation against the editor's surface. Pickers
// are supplied by a Presenter and a cancelled pick never reaches the canvas.
// Codec failures are turned into notices here and never escape an item.
package menu

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrUnknownCommand is returned by Dispatch for names that match no item.
var ErrUnknownCommand = errors.New("unknown command")

// Item is a single menu entry.
type Item struct {
	Name     string
	Mnemonic rune
	run      func(*Editor)
}

// Menu is a named group of items. A zero Item marks a separator.
type Menu struct {
	Name     string
	Mnemonic rune
	Items    []Item
}

// Separator reports whether the item only separates groups.
func (i Item) Separator() bool {
	return i.Name == ""
}

func (e *Editor) buildMenus() []Menu {
	return []Menu{
		{Name: "File", Mnemonic: 'F', Items: []Item{
			{Name: "Open", Mnemonic: 'O', run: (*Editor).Open},
			{Name: "Save", Mnemonic: 'S', run: (*Editor).Save},
			{},
			{Name: "About", Mnemonic: 'A', run: (*Editor).About},
		}},
		{Name: "Edit", Mnemonic: 'E', Items: []Item{
			{Name: "Invert", Mnemonic: 'I', run: (*Editor).Invert},
			{Name: "Clear", Mnemonic: 'C', run: (*Editor).Clear},
			{Name: "Fill", Mnemonic: 'F', run: (*Editor).Fill},
			{},
			{Name: "Copy", Mnemonic: 'Y', run: (*Editor).Copy},
			{Name: "Paste", Mnemonic: 'P', run: (*Editor).Paste},
		}},
		{Name: "Brush", Mnemonic: 'B', Items: []Item{
			{Name: "Color", Mnemonic: 'C', run: (*Editor).BrushColor},
			{Name: "Width", Mnemonic: 'W', run: (*Editor).BrushWidth},
		}},
	}
}

// Menus returns the menu bar in display order.
func (e *Editor) Menus() []Menu {
	out := make([]Menu, len(e.menus))
	for i, m := range e.menus {
		out[i] = m
		out[i].Items = append([]Item(nil), m.Items...)
	}
	return out
}

// Dispatch runs the item named by name. The name is either an item name such
// as "invert" or a qualified "edit/invert"; matching ignores case. Item
// names shared by several menus need the qualified form.
func (e *Editor) Dispatch(name string) error {
	item, err := e.lookup(name)
	if err != nil {
		return err
	}
	item.run(e)
	return nil
}

// Accelerate runs the item reached by pressing the menu mnemonic and then the
// item mnemonic, e.g. 'E' then 'I' for Edit > Invert.
func (e *Editor) Accelerate(menuKey, itemKey rune) error {
	menuKey, itemKey = unicode.ToUpper(menuKey), unicode.ToUpper(itemKey)
	for _, m := range e.menus {
		if m.Mnemonic != menuKey {
			continue
		}
		for _, it := range m.Items {
			if !it.Separator() && it.Mnemonic == itemKey {
				it.run(e)
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %c %c", ErrUnknownCommand, menuKey, itemKey)
}

func (e *Editor) lookup(name string) (Item, error) {
	menuName, itemName, qualified := strings.Cut(strings.TrimSpace(name), "/")
	if !qualified {
		itemName, menuName = menuName, ""
	}
	var found []Item
	for _, m := range e.menus {
		if qualified && !strings.EqualFold(m.Name, menuName) {
			continue
		}
		for _, it := range m.Items {
			if !it.Separator() && strings.EqualFold(it.Name, itemName) {
				found = append(found, it)
			}
		}
	}
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return Item{}, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	return Item{}, fmt.Errorf("ambiguous command %q, qualify it with a menu name", name)
}
