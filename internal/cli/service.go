package cli

import "municipal-limits/internal/app"

func newAppService() app.Service {
	return app.NewService()
}
