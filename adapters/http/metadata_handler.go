package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	metadataUC "github.com/khoahotran/custom-catalogs/internal/application/usecase/metadata"
)

// MetadataHandler proxies the dashboard's search and discover calls. Upstream
// payloads are forwarded verbatim, so responses go out with c.Data rather
// than re-marshalling.
type MetadataHandler struct {
	browseUseCase *metadataUC.BrowseUseCase
}

func NewMetadataHandler(browseUC *metadataUC.BrowseUseCase) *MetadataHandler {
	return &MetadataHandler{browseUseCase: browseUC}
}

func (h *MetadataHandler) Search(c *gin.Context) {
	payload, err := h.browseUseCase.Search(c.Request.Context(), c.Query("query"), c.Query("type"))
	if err != nil {
		c.Error(err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

func (h *MetadataHandler) Discover(c *gin.Context) {
	params := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if key == "type" || len(values) == 0 {
			continue
		}
		params[key] = values[0]
	}

	payload, err := h.browseUseCase.Discover(c.Request.Context(), c.Query("type"), params)
	if err != nil {
		c.Error(err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}
