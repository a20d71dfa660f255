package handlers

import (
	"merchline/internal/repos"
	"merchline/internal/services"
	"merchline/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	f := repos.Filter{
		CategoryID: c.Query("category"),
		Size:       c.Query("size"),
		Color:      c.Query("color"),
		Sort:       c.Query("sort"),
		MinPrice:   c.QueryFloat("minPrice"),
		MaxPrice:   c.QueryFloat("maxPrice"),
	}
	if q := c.Query("q"); q != "" {
		clean, ok := validate.Q(q)
		if !ok {
			return badRequest(c, "invalid search query")
		}
		f.Query = clean
	}

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("pageSize", 12)
	products, err := h.Catalog.ListProducts(f, page, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"products": productViews(products), "page": page})
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	p, sizes, err := h.Catalog.GetProduct(id)
	if err != nil {
		return fail(c, err)
	}
	v := newProductView(p)
	return c.JSON(fiber.Map{"product": v, "sizes": sizes})
}

type CategoryHandler struct {
	Catalog *services.CatalogService
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"categories": cats})
}
