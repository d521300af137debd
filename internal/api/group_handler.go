package api

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/123varunshhhhhh/RealtimeChatApp/internal/service"
)

func (s *Server) createGroup(c *fiber.Ctx) error {
	in := service.CreateGroupInput{
		Creator: userID(c),
		Name:    c.FormValue("name"),
	}
	if form, err := c.MultipartForm(); err == nil {
		in.Members = form.Value["members"]
	}
	if fh := formFile(c, "image"); fh != nil {
		path, ct, err := s.saveTemp(c, fh)
		if err != nil {
			return fail(c, err)
		}
		in.ImagePath, in.ImageContentType = path, ct
	}
	g, err := s.groups.Create(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"group": g})
}

func (s *Server) addGroupMember(c *fiber.Ctx) error {
	var body struct {
		GroupID string `json:"groupId"`
		UserID  string `json:"userId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
	}
	g, err := s.groups.AddMember(c.Context(), body.GroupID, userID(c), body.UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"group": g})
}

func (s *Server) removeGroupMember(c *fiber.Ctx) error {
	var body struct {
		GroupID string `json:"groupId"`
		UserID  string `json:"userId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
	}
	g, err := s.groups.RemoveMember(c.Context(), body.GroupID, userID(c), body.UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"group": g})
}

func (s *Server) updateGroup(c *fiber.Ctx) error {
	in := service.UpdateGroupInput{
		GroupID: c.FormValue("groupId"),
		Actor:   userID(c),
		Name:    c.FormValue("name"),
	}
	if fh := formFile(c, "image"); fh != nil {
		path, ct, err := s.saveTemp(c, fh)
		if err != nil {
			return fail(c, err)
		}
		in.ImagePath, in.ImageContentType = path, ct
	}
	g, err := s.groups.UpdateInfo(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"group": g})
}

func (s *Server) listGroups(c *fiber.Ctx) error {
	groups, err := s.groups.ListWithUnread(c.Context(), userID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"groups": groups})
}
