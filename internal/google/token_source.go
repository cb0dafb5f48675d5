package google

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/teemow/drivemenu/internal/instrumentation"
)

// meteredTokenSource records every refresh attempt made by the wrapped
// source. It sits below oauth2.ReuseTokenSource, so it is only called when
// a new token is actually needed.
type meteredTokenSource struct {
	ctx     context.Context
	base    oauth2.TokenSource
	metrics *instrumentation.Metrics
}

func (s *meteredTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		s.metrics.RecordOAuthTokenRefresh(s.ctx, instrumentation.OAuthResultFailure)
		return nil, err
	}
	s.metrics.RecordOAuthTokenRefresh(s.ctx, instrumentation.OAuthResultSuccess)
	return tok, nil
}
