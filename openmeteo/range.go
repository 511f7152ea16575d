package openmeteo

import (
	"context"
	"log"
)

// FetchRange fetches a long date range as a sequence of month-sized chunks,
// one synchronous request per chunk, in order. Chunk boundaries overlap by
// one day; the tabular stage deduplicates on (timestamp, model). Any chunk
// failure aborts the whole range; partial results are never returned as if
// complete.
func (c *Client) FetchRange(ctx context.Context, q Query) ([]*ArchiveResponse, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var responses []*ArchiveResponse
	chunkEnd := q.StartDate
	for chunkEnd.Before(q.EndDate) {
		chunkStart := chunkEnd
		chunkEnd = chunkStart.AddDate(0, 1, 0)
		if chunkEnd.After(q.EndDate) {
			chunkEnd = q.EndDate
		}

		chunk := q
		chunk.StartDate = chunkStart
		chunk.EndDate = chunkEnd

		log.Printf("archive fetch %s..%s (%d models)",
			chunkStart.Format("2006-01-02"), chunkEnd.Format("2006-01-02"), len(q.Models))

		resp, err := c.Fetch(ctx, chunk)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}

	if len(responses) == 0 {
		// Degenerate single-day range still needs one fetch.
		resp, err := c.Fetch(ctx, q)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}
