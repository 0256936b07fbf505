package app

import (
	"time"

	"github.com/robertjmccarthy/snagged-it-lite-sub000/internal/store"
)

// Response shaping lives here so the storage models stay free of JSON
// concerns and the wire format can move without touching the store.

func progressPayload(progress store.UserProgress) map[string]any {
	return map[string]any{
		"categorySlug": progress.CategorySlug,
		"currentStep":  progress.CurrentStep,
		"isComplete":   progress.IsComplete,
		"updatedAt":    progress.UpdatedAt.Format(time.RFC3339),
	}
}

func itemPayload(item store.ChecklistItem) map[string]any {
	return map[string]any{
		"id":           item.ID,
		"categorySlug": item.CategorySlug,
		"displayOrder": item.DisplayOrder,
		"originalText": item.OriginalText,
		"friendlyText": item.FriendlyText,
	}
}

func snagListPayload(list store.SnagList) map[string]any {
	payload := map[string]any{
		"id":            list.ID,
		"name":          list.Name,
		"isActive":      list.IsActive,
		"paymentStatus": list.PaymentStatus,
		"address":       list.Address,
		"builderName":   list.BuilderName,
		"builderEmail":  list.BuilderEmail,
		"createdAt":     list.CreatedAt.Format(time.RFC3339),
	}
	if list.ShareID != nil {
		payload["shareId"] = *list.ShareID
	}
	if list.SharedAt != nil {
		payload["sharedAt"] = list.SharedAt.Format(time.RFC3339)
	}
	return payload
}

func snagPayload(snag store.Snag) map[string]any {
	return map[string]any{
		"id":              snag.ID,
		"checklistItemId": snag.ChecklistItemID,
		"snagListId":      snag.SnagListID,
		"note":            snag.Note,
		"photoUrl":        snag.PhotoURL,
		"createdAt":       snag.CreatedAt.Format(time.RFC3339),
	}
}

func sharePayload(share store.ShareRequest) map[string]any {
	return map[string]any{
		"id":           share.ID,
		"builderName":  share.BuilderName,
		"builderEmail": share.BuilderEmail,
		"address":      share.Address,
		"status":       share.Status,
		"createdAt":    share.CreatedAt.Format(time.RFC3339),
	}
}
