package api

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/123varunshhhhhh/RealtimeChatApp/internal/domain"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/service"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/ws"
)

func (s *Server) sendDirect(c *fiber.Ctx) error {
	target, err := domain.NewDirectTarget(c.Params("receiver"))
	if err != nil {
		return fail(c, err)
	}
	return s.send(c, target)
}

func (s *Server) sendGroup(c *fiber.Ctx) error {
	target, err := domain.NewGroupTarget(c.Params("groupId"))
	if err != nil {
		return fail(c, err)
	}
	return s.send(c, target)
}

func (s *Server) send(c *fiber.Ctx, target domain.Target) error {
	in := service.SendInput{
		Sender:   userID(c),
		Target:   target,
		Body:     c.FormValue("message"),
		Caption:  c.FormValue("caption"),
		ImageURL: c.FormValue("image"),
	}
	if fh := formFile(c, "image"); fh != nil {
		path, ct, err := s.saveTemp(c, fh)
		if err != nil {
			return fail(c, err)
		}
		in.ImagePath, in.ImageContentType = path, ct
	}
	if fh := formFile(c, "audio"); fh != nil {
		path, ct, err := s.saveTemp(c, fh)
		if err != nil {
			return fail(c, err)
		}
		in.AudioPath, in.AudioContentType = path, ct
	}

	m, err := s.msgs.Send(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}

	// best-effort realtime fan-out; the response body already carries the
	// message back to the sender
	if target.IsGroup() {
		if err := s.router.DeliverGroupMessage(c.Context(), nil, m); err != nil {
			s.log.Warnw("group fanout failed", "group", m.GroupID, "err", err)
		}
	} else if s.router.DeliverDirectMessage(m) == ws.Delivered {
		if err := s.msgs.MarkDelivered(c.Context(), m.ID); err != nil {
			s.log.Debugw("mark delivered failed", "message", m.ID, "err", err)
		} else {
			m.Status = domain.StatusDelivered
		}
	}
	return c.Status(http.StatusCreated).JSON(m)
}

func (s *Server) history(c *fiber.Ctx) error {
	msgs, err := s.msgs.History(c.Context(), userID(c), c.Params("receiver"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(msgs)
}

func (s *Server) groupHistory(c *fiber.Ctx) error {
	msgs, err := s.msgs.GroupHistory(c.Context(), c.Params("groupId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(msgs)
}

func (s *Server) markSeen(c *fiber.Ctx) error {
	var body struct {
		MessageIDs []string `json:"messageIds"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
	}
	updated, err := s.msgs.MarkSeen(c.Context(), body.MessageIDs, userID(c))
	if err != nil {
		return fail(c, err)
	}
	s.router.DeliverStatusUpdates(updated)
	return c.JSON(updated)
}

func (s *Server) addReaction(c *fiber.Ctx) error {
	var body struct {
		MessageID string `json:"messageId"`
		Emoji     string `json:"emoji"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
	}
	// request path: reactions always replace, unlike the realtime toggle
	m, err := s.msgs.React(c.Context(), body.MessageID, userID(c), body.Emoji)
	if err != nil {
		return fail(c, err)
	}
	s.router.DeliverReaction(m, userID(c), body.Emoji)
	return c.JSON(m)
}

func (s *Server) deleteMessage(c *fiber.Ctx) error {
	var body struct {
		MessageID string `json:"messageId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
	}
	m, err := s.msgs.Delete(c.Context(), body.MessageID, userID(c))
	if err != nil {
		return fail(c, err)
	}
	s.router.DeliverDeleted(m, userID(c))
	return c.JSON(fiber.Map{"message": "message deleted"})
}

func (s *Server) conversations(c *fiber.Ctx) error {
	out, err := s.msgs.ConversationsWithUnread(c.Context(), userID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
