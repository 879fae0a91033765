package congress

import (
	"context"

	"github.com/jskelly/legisync/internal/logger"
)

// ListMembers retrieves the complete member list for one congress by walking
// offset-based pages of PageLimit records. The first page shorter than the
// limit (including an empty one) is the last page; no upstream total-count
// field is consulted. A fetch failure at any offset aborts the whole listing.
func (c *Client) ListMembers(ctx context.Context, congressNum int) ([]Member, error) {
	var members []Member
	offset := 0

	for {
		page, err := c.FetchMembers(ctx, congressNum, offset)
		if err != nil {
			return nil, err
		}

		members = append(members, page.Members...)

		c.log(ctx).WithFields(logger.Fields{
			logger.FieldCongress: congressNum,
			logger.FieldOffset:   offset,
			logger.FieldCount:    len(page.Members),
		}).Debug("Fetched member page")

		if len(page.Members) < c.pageLimit {
			break
		}
		offset += c.pageLimit
	}

	c.log(ctx).WithFields(logger.Fields{
		logger.FieldCongress: congressNum,
		logger.FieldCount:    len(members),
	}).Info("Member listing complete")

	return members, nil
}
