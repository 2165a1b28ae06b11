package sync

import "github.com/iudanet/granola-sync/internal/models"

// folderDocuments filters the flat document listing down to the documents
// the folder references, preserving listing order. A document referenced
// by several watched folders is delivered once per matching folder.
func folderDocuments(folder models.Folder, documents []models.Document) []models.Document {
	ids := make(map[string]struct{}, len(folder.DocumentIDs))
	for _, id := range folder.DocumentIDs {
		ids[id] = struct{}{}
	}

	var members []models.Document
	for _, doc := range documents {
		if _, ok := ids[doc.ID]; ok {
			members = append(members, doc)
		}
	}
	return members
}

// changedDocuments keeps only the documents the ledger considers new or
// updated, in listing order.
func (s *service) changedDocuments(documents []models.Document) []models.Document {
	var changed []models.Document
	for _, doc := range documents {
		if doc.ID == "" {
			continue
		}
		if s.ledger.IsNewOrUpdated(doc.ID, doc.EffectiveUpdatedAt()) {
			changed = append(changed, doc)
		}
	}
	return changed
}
