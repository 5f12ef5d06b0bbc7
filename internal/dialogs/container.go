package dialogs

import (
	"github.com/vm-affekt/fbdl/internal/app"
	"github.com/vm-affekt/fbdl/internal/dialogs/maind"
)

// Container is DI-container of app
type Container struct {
	downloadService app.DownloadService
}

func NewContainer(downloadService app.DownloadService) *Container {
	return &Container{
		downloadService: downloadService,
	}
}

func (c *Container) CreateDialog(rup app.ReqUserProvider) app.Dialog {
	return maind.New(rup, c.downloadService)
}
