package api

import "context"

func (c *Client) ProductReviews(ctx context.Context, productID string, page, limit int) ReviewsResult {
	var res ReviewsResult
	c.request(ctx, "/api/review/list", post(map[string]any{
		"productId": productID,
		"page":      page,
		"limit":     limit,
	}), &res)
	return res
}

// AddReview posts a review as the current user. Without a token, or when no
// user id can be recovered from the session, it fails without a round trip.
func (c *Client) AddReview(ctx context.Context, productID string, rating int, comment string) ReviewResult {
	if c.token(ctx) == "" {
		return ReviewResult{Envelope: failure(MsgNotLoggedIn)}
	}

	userID := c.creds.UserID(ctx)
	if userID == "" {
		return ReviewResult{Envelope: failure(MsgSessionExpired)}
	}

	userName := DefaultUserName
	if u, ok := c.profile(ctx); ok && u.Name != "" {
		userName = u.Name
	}

	var res ReviewResult
	c.request(ctx, "/api/review/add", post(map[string]any{
		"productId": productID,
		"userId":    userID,
		"userName":  userName,
		"rating":    rating,
		"comment":   comment,
	}), &res)
	return res
}

func (c *Client) DeleteReview(ctx context.Context, reviewID string) Result {
	u, ok := c.profile(ctx)
	if !ok {
		return Result{Envelope: failure(MsgUnauthorized)}
	}

	var res Result
	c.request(ctx, "/api/review/delete", post(map[string]any{
		"reviewId": reviewID,
		"userId":   u.ID,
	}), &res)
	return res
}

func (c *Client) CanReview(ctx context.Context, productID string) CanReviewResult {
	u, ok := c.profile(ctx)
	if !ok {
		return CanReviewResult{
			Envelope: Envelope{Success: true},
			Reason:   ReasonNotLoggedIn,
		}
	}

	var res CanReviewResult
	c.request(ctx, "/api/review/can-review", post(map[string]any{
		"productId": productID,
		"userId":    u.ID,
	}), &res)
	return res
}
