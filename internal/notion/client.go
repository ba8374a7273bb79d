package notion

import (
	"context"

	gnt "github.com/dstotijn/go-notion"

	"jobtrack.local/internal/domain"
)

type Client struct {
	api        *gnt.Client
	databaseID string
}

func New(token, databaseID string) *Client {
	return &Client{
		api:        gnt.NewClient(token),
		databaseID: databaseID,
	}
}

// Ping just tries a tiny QueryDatabase to see if the DB is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.api.QueryDatabase(ctx, c.databaseID, &gnt.DatabaseQuery{
		PageSize: 1,
	})
	return err
}

// helper: build a valid Notion rich_text slice from a plain string.
func richText(s string) []gnt.RichText {
	if s == "" {
		return nil
	}
	return []gnt.RichText{
		{
			Text: &gnt.Text{
				Content: s,
			},
		},
	}
}

func buildApplicationPageProperties(app domain.Application) gnt.DatabasePageProperties {
	props := gnt.DatabasePageProperties{}

	// Position — Title (required title property)
	if app.PositionTitle != "" {
		props["Position"] = gnt.DatabasePageProperty{
			Title: richText(app.PositionTitle),
		}
	}

	if app.CompanyName != "" {
		props["Company"] = gnt.DatabasePageProperty{
			RichText: richText(app.CompanyName),
		}
	}

	if app.Status != "" {
		props["Status"] = gnt.DatabasePageProperty{
			Select: &gnt.SelectOptions{
				Name: app.Status,
			},
		}
	}

	// Date Applied — date only, no time component
	if !app.DateApplied.IsZero() {
		props["Date Applied"] = gnt.DatabasePageProperty{
			Date: &gnt.Date{
				Start: gnt.NewDateTime(app.DateApplied, false),
			},
		}
	}

	return props
}

// PushApplication creates a row for app in the tracker database and returns the page ID.
func (c *Client) PushApplication(ctx context.Context, app domain.Application) (string, error) {
	props := buildApplicationPageProperties(app)

	params := gnt.CreatePageParams{
		ParentType:             gnt.ParentTypeDatabase,
		ParentID:               c.databaseID,
		DatabasePageProperties: &props,
	}

	page, err := c.api.CreatePage(ctx, params)
	if err != nil {
		return "", err
	}
	return page.ID, nil
}
