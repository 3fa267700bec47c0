package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/GymAppBack/internal/onboarding"
	"github.com/saeid-a/GymAppBack/internal/services"
)

// OnboardingHandler drives the client-onboarding wizard a trainer walks
// through. The wizard itself is stateless on the server: the client submits
// the accumulated state and the handler evaluates or executes it.
type OnboardingHandler struct {
	goals    *services.GoalService
	plans    *services.PlanService
	programs *services.ProgramService
	sessions *services.SessionService
}

func NewOnboardingHandler(
	goals *services.GoalService,
	plans *services.PlanService,
	programs *services.ProgramService,
	sessions *services.SessionService,
) *OnboardingHandler {
	return &OnboardingHandler{
		goals:    goals,
		plans:    plans,
		programs: programs,
		sessions: sessions,
	}
}

type onboardingRequest struct {
	State onboarding.State `json:"state"`
}

// Validate reports each step's gate for the submitted state, so the client
// can tell which step to send the user back to.
func (h *OnboardingHandler) Validate(c *fiber.Ctx) error {
	if _, ok := requireTrainer(c); !ok {
		return jsonError(c, fiber.StatusForbidden, "Forbidden")
	}

	var req onboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	wizard := onboarding.NewWizard()
	wizard.SetState(req.State)

	steps := make([]fiber.Map, 0)
	for {
		steps = append(steps, fiber.Map{
			"step":        wizard.Step().String(),
			"can_proceed": wizard.CanProceed(),
		})
		if wizard.Step() == wizard.Next() {
			break
		}
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{
		"steps":    steps,
		"complete": wizard.Complete(),
	})
}

// Submit executes the wizard: goals, plan, program, session population, in
// that order. A failure partway leaves earlier writes in place.
func (h *OnboardingHandler) Submit(c *fiber.Ctx) error {
	trainerID, ok := requireTrainer(c)
	if !ok {
		return jsonError(c, fiber.StatusForbidden, "Forbidden")
	}

	var req onboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	wizard := onboarding.NewWizard()
	wizard.SetState(req.State)

	program, err := wizard.Submit(c.Context(), trainerID, onboarding.SubmitDeps{
		Goals:    h.goals,
		Plans:    h.plans,
		Programs: h.programs,
		Sessions: todayPopulator{sessions: h.sessions},
	})
	if err != nil {
		return mapOnboardingError(c, err)
	}

	return jsonData(c, fiber.StatusCreated, fiber.Map{"program": program})
}

type todayPopulator struct {
	sessions *services.SessionService
}

func (p todayPopulator) PopulateForUser(ctx context.Context, userID int64) (int, error) {
	return p.sessions.PopulateForUser(ctx, userID, time.Now().UTC())
}

func mapOnboardingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, onboarding.ErrIncomplete):
		return jsonError(c, fiber.StatusBadRequest, "Onboarding state is incomplete")
	case errors.Is(err, services.ErrNoAccess):
		return jsonError(c, fiber.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrInvalidInput):
		return jsonError(c, fiber.StatusBadRequest, "Invalid request")
	default:
		return jsonError(c, fiber.StatusInternalServerError, "Failed to submit onboarding")
	}
}
