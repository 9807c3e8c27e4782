package merge

import "github.com/minios-linux/i18nsync/catalog"

// Update returns existing with every message that incoming translates
// replaced by the incoming translation.
//
// The result has exactly the keys of existing: messages only known to
// incoming are dropped, and an empty incoming translation never clears an
// existing one.
func Update(existing, incoming catalog.MessageMap) catalog.MessageMap {
	result := existing.Clone()
	for message := range existing {
		if translation := incoming[message]; translation != "" {
			result[message] = translation
		}
	}
	return result
}

// UpdateCategories applies Update to every category of existing that
// incoming also has. The result has exactly the categories of existing.
func UpdateCategories(existing, incoming catalog.CategoryMap) catalog.CategoryMap {
	result := make(catalog.CategoryMap, len(existing))
	for category, messages := range existing {
		if fresh, ok := incoming[category]; ok {
			result[category] = Update(messages, fresh)
		} else {
			result[category] = messages.Clone()
		}
	}
	return result
}

// Fill returns fresh with every empty translation replaced by the non-empty
// translation old has for the same message. The result has exactly the keys
// of fresh.
func Fill(fresh, old catalog.MessageMap) catalog.MessageMap {
	result := fresh.Clone()
	for message, translation := range fresh {
		if translation != "" {
			continue
		}
		if previous := old[message]; previous != "" {
			result[message] = previous
		}
	}
	return result
}

// FillCategories applies Fill to every category of fresh that old also has.
// The result has exactly the categories of fresh.
func FillCategories(fresh, old catalog.CategoryMap) catalog.CategoryMap {
	result := make(catalog.CategoryMap, len(fresh))
	for category, messages := range fresh {
		if previous, ok := old[category]; ok {
			result[category] = Fill(messages, previous)
		} else {
			result[category] = messages.Clone()
		}
	}
	return result
}
