package usecase

import (
	"family-hub/internal/assistant"
	"family-hub/internal/model"
)

// privileges names what each intent requires, in words a user understands.
var privileges = map[model.Intent]string{
	model.IntentCreateTask:           "task editing",
	model.IntentUpdateTask:           "task editing",
	model.IntentDeleteTask:           "task deletion",
	model.IntentCreateEvent:          "calendar editing",
	model.IntentUpdateEvent:          "calendar editing",
	model.IntentDeleteEvent:          "event deletion",
	model.IntentAddBudgetEntry:       "budget editing",
	model.IntentDeleteBudgetEntry:    "budget deletion",
	model.IntentQueryBudget:          "budget viewing",
	model.IntentAddShoppingItem:      "shopping list editing",
	model.IntentCheckOffShoppingItem: "shopping list editing",
}

// childDenied lists what a child may not do: every deletion and every budget write.
var childDenied = map[model.Intent]bool{
	model.IntentDeleteTask:        true,
	model.IntentDeleteEvent:       true,
	model.IntentDeleteBudgetEntry: true,
	model.IntentAddBudgetEntry:    true,
}

// allowed is the static (role, intent) policy. Unknown roles are denied everything.
func allowed(role model.Role, intent model.Intent) bool {
	switch role {
	case model.RoleAdmin, model.RoleParent:
		return intent.Actionable()
	case model.RoleChild:
		return intent.Actionable() && !childDenied[intent]
	}
	return false
}

func authorize(role model.Role, intent model.Intent) error {
	if allowed(role, intent) {
		return nil
	}

	var holders []model.Role
	for _, r := range model.Roles() {
		if allowed(r, intent) {
			holders = append(holders, r)
		}
	}
	return &assistant.PermissionDeniedError{
		Role:      role,
		Intent:    intent,
		Privilege: privileges[intent],
		Holders:   holders,
	}
}
