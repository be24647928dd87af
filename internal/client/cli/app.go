package cli

import (
	"bufio"
	"os"

	"github.com/dkravets/mediakeeper/internal/client/api"
	"github.com/dkravets/mediakeeper/internal/client/config"
	"github.com/dkravets/mediakeeper/internal/client/media"
	"github.com/dkravets/mediakeeper/internal/mediahost/imagehost"
	"github.com/dkravets/mediakeeper/internal/mediahost/videohost"
)

// App wires the interactive CLI: the API client, the media hosts, and the
// selection store of the current editing session.
type App struct {
	config    *config.Config
	api       *api.Client
	imageHost *imagehost.Client
	videoHost *videohost.Client

	reader *bufio.Reader
	email  string
	space  *api.Space
	store  *media.Store
}

// galleryLimit caps how many references one editing session keeps selected.
const galleryLimit = 8

func NewApp(c *config.Config) (*App, error) {
	apiClient := api.NewClient(c.ServerURL, c.RequestTimeout)

	// only UploadFile is exercised here; direct PUTs to issued upload URLs
	// carry no credentials
	videoHost := videohost.NewClient("", "", "")

	return &App{
		config:    c,
		api:       apiClient,
		imageHost: imagehost.NewClient(c.ImageHostUploadURL, c.ImageHostAPIKey, c.ImageHostUploadPreset),
		videoHost: videoHost,
		reader:    bufio.NewReader(os.Stdin),
		store:     media.NewStore(galleryLimit),
	}, nil
}

func (a *App) isLoggedIn() bool {
	access, _ := a.api.Tokens()
	return access != ""
}

func (a *App) hasSpace() bool {
	return a.space != nil
}
