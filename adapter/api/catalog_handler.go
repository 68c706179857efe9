package api

import (
	"net/http"

	catalogDomain "github.com/Animesh0711/DailyEase/internal/catalog/domain"
	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	"github.com/gin-gonic/gin"
)

type catalogHandler struct {
	catalog catalogDomain.Catalog
}

// Quote handles POST /api/quotes. Nothing is stored.
func (h *catalogHandler) Quote(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: %v", err)
		return
	}
	sel, freq, err := req.Parse()
	if err != nil {
		writeError(c, err)
		return
	}
	if h.catalog != nil {
		if err := catalogDomain.ValidateSelection(c.Request.Context(), h.catalog, sel); err != nil {
			writeError(c, err)
			return
		}
	}

	q := pricingDomain.Price(sel, freq)
	c.JSON(http.StatusOK, gin.H{
		"quote":    q,
		"subtotal": q.Subtotal(),
		"discount": q.Discount(),
	})
}

// Newspapers handles GET /api/catalog/newspapers. The language and genre
// query parameters narrow the list.
func (h *catalogHandler) Newspapers(c *gin.Context) {
	h.listNewspapers(c, c.Query("language"), c.Query("genre"))
}

// NewspapersByLanguage handles GET /api/catalog/newspapers/language/:language.
func (h *catalogHandler) NewspapersByLanguage(c *gin.Context) {
	h.listNewspapers(c, c.Param("language"), "")
}

// NewspapersByGenre handles GET /api/catalog/newspapers/genre/:genre.
func (h *catalogHandler) NewspapersByGenre(c *gin.Context) {
	h.listNewspapers(c, "", c.Param("genre"))
}

func (h *catalogHandler) listNewspapers(c *gin.Context, language, genre string) {
	if h.catalog == nil {
		c.JSON(http.StatusOK, gin.H{"newspapers": []catalogDomain.Newspaper{}})
		return
	}
	papers, err := h.catalog.ListNewspapers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"newspapers": catalogDomain.FilterNewspapers(papers, language, genre)})
}

// Milk handles GET /api/catalog/milk.
func (h *catalogHandler) Milk(c *gin.Context) {
	if h.catalog == nil {
		c.JSON(http.StatusOK, gin.H{"milk": []catalogDomain.MilkProduct{}})
		return
	}
	products, err := h.catalog.ListMilkProducts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"milk": products})
}
