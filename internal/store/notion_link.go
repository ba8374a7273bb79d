package store

import "context"

// SaveNotionPageID stores the Notion page ID for a given application.
func (s *Store) SaveNotionPageID(ctx context.Context, appID int64, notionPageID string) error {
	err := s.DB.WithContext(ctx).
		Model(&application{}).
		Where("id = ?", appID).
		Update("notion_page_id", notionPageID).Error
	if err != nil {
		return s.fail("save notion page id", err)
	}
	return nil
}
