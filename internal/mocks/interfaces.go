package mocks

import "github.com/dtroode/tap-portal-server/internal/model"

var (
	_ model.AccountStore     = (*AccountStore)(nil)
	_ model.TokenManager     = (*TokenManager)(nil)
	_ model.IdentityProvider = (*IdentityProvider)(nil)
	_ model.StudentStore     = (*StudentStore)(nil)
	_ model.CoordinatorStore = (*CoordinatorStore)(nil)
	_ model.JobStore         = (*JobStore)(nil)
	_ model.ApplicationStore = (*ApplicationStore)(nil)
	_ model.RecruiterStore   = (*RecruiterStore)(nil)
	_ model.Storage          = (*Storage)(nil)
	_ model.Mailer           = (*Mailer)(nil)
	_ model.SheetReader      = (*SheetReader)(nil)
)
