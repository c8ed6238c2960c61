package meal

import (
	"context"
	"testing"
	"time"

	"github.com/potluck/potluck/internal/utils"
	"github.com/potluck/potluck/pkg/attendee"
	"github.com/potluck/potluck/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)

type mealFixture struct {
	repo      *RepositoryStub
	attendees attendee.Service
	service   Service
}

func setupService() mealFixture {
	clock := &utils.MockClock{FixedNow: fixedNow}
	repo := NewRepositoryStub()
	attendees := attendee.NewService(attendee.NewRepositoryStub(), clock)
	return mealFixture{
		repo:      repo,
		attendees: attendees,
		service:   NewService(repo, attendees, clock),
	}
}

func signedInCtx(id, name, email string) context.Context {
	return user.WithUser(context.Background(), user.User{ID: id, Name: name, Email: email})
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("defaults the name to the type label", func(t *testing.T) {
		f := setupService()

		created, err := f.service.Create(context.Background(), "event-1", Draft{Type: TypeDinner})

		require.NoError(t, err)
		assert.Equal(t, "Dinner", created.Name)
		assert.Equal(t, fixedNow, created.CreatedAt)
	})

	t.Run("keeps an explicit name", func(t *testing.T) {
		f := setupService()

		created, err := f.service.Create(context.Background(), "event-1", Draft{Name: "Friday Feast", Type: TypeDinner})

		require.NoError(t, err)
		assert.Equal(t, "Friday Feast", created.Name)
	})

	t.Run("rejects an unknown type", func(t *testing.T) {
		f := setupService()

		_, err := f.service.Create(context.Background(), "event-1", Draft{Type: "brunch"})

		assert.ErrorIs(t, err, ErrMealDataInvalid)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	t.Run("removes items and signups with the meal", func(t *testing.T) {
		f := setupService()
		ctx := signedInCtx("user-1", "Ana", "ana@example.com")
		f.repo.RegisterUser("user-1", "Ana", "ana@example.com")

		m, err := f.service.Create(ctx, "event-1", Draft{Type: TypeLunch})
		require.NoError(t, err)
		item, err := f.service.AddItem(ctx, m.ID, ItemDraft{Name: "Salad"})
		require.NoError(t, err)
		_, err = f.service.SignUp(ctx, m.ID, item.ID, "")
		require.NoError(t, err)

		err = f.service.Delete(ctx, "event-1", m.ID)

		require.NoError(t, err)
		meals, err := f.service.ListWithItems(ctx, "event-1")
		require.NoError(t, err)
		assert.Empty(t, meals)
		_, err = f.repo.GetItem(ctx, item.ID)
		assert.ErrorIs(t, err, ErrMealItemNotFound)
	})

	t.Run("requires a matching event", func(t *testing.T) {
		f := setupService()
		m, err := f.service.Create(context.Background(), "event-1", Draft{Type: TypeLunch})
		require.NoError(t, err)

		err = f.service.Delete(context.Background(), "other-event", m.ID)

		assert.ErrorIs(t, err, ErrMealNotFound)
	})
}

func TestServiceImpl_AddItem(t *testing.T) {
	t.Run("rejects an empty name", func(t *testing.T) {
		f := setupService()
		m, err := f.service.Create(context.Background(), "event-1", Draft{Type: TypeLunch})
		require.NoError(t, err)

		_, err = f.service.AddItem(context.Background(), m.ID, ItemDraft{})

		assert.ErrorIs(t, err, ErrMealDataInvalid)
	})

	t.Run("accepts an assignee from the same event", func(t *testing.T) {
		f := setupService()
		ctx := context.Background()
		m, err := f.service.Create(ctx, "event-1", Draft{Type: TypeLunch})
		require.NoError(t, err)
		a, err := f.attendees.Add(ctx, "event-1", attendee.Draft{Name: "Ana", Email: "ana@example.com"})
		require.NoError(t, err)
		f.repo.RegisterAttendee(a.ID, a.Name)

		item, err := f.service.AddItem(ctx, m.ID, ItemDraft{Name: "Salad", AssignedAttendeeID: &a.ID})

		require.NoError(t, err)
		require.NotNil(t, item.AssignedAttendeeID)
		assert.Equal(t, a.ID, *item.AssignedAttendeeID)
		require.NotNil(t, item.AssignedAttendeeName)
		assert.Equal(t, "Ana", *item.AssignedAttendeeName)
	})

	t.Run("rejects an assignee from another event", func(t *testing.T) {
		f := setupService()
		ctx := context.Background()
		m, err := f.service.Create(ctx, "event-1", Draft{Type: TypeLunch})
		require.NoError(t, err)
		a, err := f.attendees.Add(ctx, "event-2", attendee.Draft{Name: "Bob", Email: "bob@example.com"})
		require.NoError(t, err)

		_, err = f.service.AddItem(ctx, m.ID, ItemDraft{Name: "Salad", AssignedAttendeeID: &a.ID})

		assert.ErrorIs(t, err, ErrAttendeeNotInEvent)
	})

	t.Run("rejects an unknown assignee", func(t *testing.T) {
		f := setupService()
		ctx := context.Background()
		m, err := f.service.Create(ctx, "event-1", Draft{Type: TypeLunch})
		require.NoError(t, err)

		missing := "missing"
		_, err = f.service.AddItem(ctx, m.ID, ItemDraft{Name: "Salad", AssignedAttendeeID: &missing})

		assert.ErrorIs(t, err, ErrAttendeeNotInEvent)
	})
}

func TestServiceImpl_UpdateItem(t *testing.T) {
	t.Run("clears the assignment with an empty id", func(t *testing.T) {
		f := setupService()
		ctx := context.Background()
		m, err := f.service.Create(ctx, "event-1", Draft{Type: TypeLunch})
		require.NoError(t, err)
		a, err := f.attendees.Add(ctx, "event-1", attendee.Draft{Name: "Ana", Email: "ana@example.com"})
		require.NoError(t, err)
		f.repo.RegisterAttendee(a.ID, a.Name)
		item, err := f.service.AddItem(ctx, m.ID, ItemDraft{Name: "Salad", AssignedAttendeeID: &a.ID})
		require.NoError(t, err)

		none := ""
		updated, err := f.service.UpdateItem(ctx, item.ID, ItemUpdate{AssignedAttendeeID: &none})

		require.NoError(t, err)
		assert.Nil(t, updated.AssignedAttendeeID)
		assert.Nil(t, updated.AssignedAttendeeName)
	})

	t.Run("keeps untouched fields on partial update", func(t *testing.T) {
		f := setupService()
		ctx := context.Background()
		m, err := f.service.Create(ctx, "event-1", Draft{Type: TypeLunch})
		require.NoError(t, err)
		item, err := f.service.AddItem(ctx, m.ID, ItemDraft{Name: "Salad", Description: "Green"})
		require.NoError(t, err)

		name := "Caesar Salad"
		updated, err := f.service.UpdateItem(ctx, item.ID, ItemUpdate{Name: &name})

		require.NoError(t, err)
		assert.Equal(t, "Caesar Salad", updated.Name)
		assert.Equal(t, "Green", updated.Description)
	})
}

func TestServiceImpl_SignUp(t *testing.T) {
	t.Run("records the signup and auto-adds the attendee", func(t *testing.T) {
		f := setupService()
		ctx := signedInCtx("user-1", "Ana", "ana@example.com")
		f.repo.RegisterUser("user-1", "Ana", "ana@example.com")
		m, err := f.service.Create(ctx, "event-1", Draft{Type: TypeLunch})
		require.NoError(t, err)
		item, err := f.service.AddItem(ctx, m.ID, ItemDraft{Name: "Salad"})
		require.NoError(t, err)

		signup, err := f.service.SignUp(ctx, m.ID, item.ID, "bringing extra dressing")

		require.NoError(t, err)
		assert.Equal(t, "user-1", signup.UserID)
		assert.Equal(t, "bringing extra dressing", signup.Notes)

		// The signer appears on the attendee list as attending.
		added, err := f.attendees.FindByEmail(ctx, "event-1", "ana@example.com")
		require.NoError(t, err)
		assert.Equal(t, attendee.StatusAttending, added.Status)
	})

	t.Run("does not duplicate an existing attendee", func(t *testing.T) {
		f := setupService()
		ctx := signedInCtx("user-1", "Ana", "ana@example.com")
		f.repo.RegisterUser("user-1", "Ana", "ana@example.com")
		_, err := f.attendees.Add(ctx, "event-1", attendee.Draft{Name: "Ana", Email: "Ana@Example.com", Status: attendee.StatusMaybe})
		require.NoError(t, err)
		m, err := f.service.Create(ctx, "event-1", Draft{Type: TypeLunch})
		require.NoError(t, err)
		item, err := f.service.AddItem(ctx, m.ID, ItemDraft{Name: "Salad"})
		require.NoError(t, err)

		_, err = f.service.SignUp(ctx, m.ID, item.ID, "")

		require.NoError(t, err)
		attendees, err := f.attendees.ListByEvent(ctx, "event-1")
		require.NoError(t, err)
		require.Len(t, attendees, 1)
		// The existing RSVP is left untouched.
		assert.Equal(t, attendee.StatusMaybe, attendees[0].Status)
	})

	t.Run("rejects a second signup for the same item", func(t *testing.T) {
		f := setupService()
		ctx := signedInCtx("user-1", "Ana", "ana@example.com")
		f.repo.RegisterUser("user-1", "Ana", "ana@example.com")
		m, err := f.service.Create(ctx, "event-1", Draft{Type: TypeLunch})
		require.NoError(t, err)
		item, err := f.service.AddItem(ctx, m.ID, ItemDraft{Name: "Salad"})
		require.NoError(t, err)
		_, err = f.service.SignUp(ctx, m.ID, item.ID, "")
		require.NoError(t, err)

		_, err = f.service.SignUp(ctx, m.ID, item.ID, "")

		assert.ErrorIs(t, err, ErrAlreadySignedUp)
	})

	t.Run("reports a conflict when the insert loses a race", func(t *testing.T) {
		f := setupService()
		ctx := signedInCtx("user-1", "Ana", "ana@example.com")
		f.repo.RegisterUser("user-1", "Ana", "ana@example.com")
		m, err := f.service.Create(ctx, "event-1", Draft{Type: TypeLunch})
		require.NoError(t, err)
		item, err := f.service.AddItem(ctx, m.ID, ItemDraft{Name: "Salad"})
		require.NoError(t, err)

		// Simulate a concurrent winner slipping in between the service's
		// pre-check and its insert.
		require.NoError(t, f.repo.StoreSignup(ctx, MealSignup{
			ID: "winner", MealItemID: item.ID, UserID: "user-1", CreatedAt: fixedNow,
		}))

		_, err = f.service.SignUp(ctx, m.ID, item.ID, "")

		assert.ErrorIs(t, err, ErrAlreadySignedUp)
	})

	t.Run("requires a signed-in user", func(t *testing.T) {
		f := setupService()

		_, err := f.service.SignUp(context.Background(), "meal-1", "item-1", "")

		assert.ErrorIs(t, err, user.ErrNoUser)
	})

	t.Run("rejects an unknown item", func(t *testing.T) {
		f := setupService()
		ctx := signedInCtx("user-1", "Ana", "ana@example.com")

		_, err := f.service.SignUp(ctx, "meal-1", "missing", "")

		assert.ErrorIs(t, err, ErrMealItemNotFound)
	})

	t.Run("rejects an item reached through another meal", func(t *testing.T) {
		f := setupService()
		ctx := signedInCtx("user-1", "Ana", "ana@example.com")
		f.repo.RegisterUser("user-1", "Ana", "ana@example.com")
		lunch, err := f.service.Create(ctx, "event-1", Draft{Type: TypeLunch})
		require.NoError(t, err)
		otherDinner, err := f.service.Create(ctx, "event-2", Draft{Type: TypeDinner})
		require.NoError(t, err)
		item, err := f.service.AddItem(ctx, lunch.ID, ItemDraft{Name: "Salad"})
		require.NoError(t, err)

		_, err = f.service.SignUp(ctx, otherDinner.ID, item.ID, "")

		assert.ErrorIs(t, err, ErrMealItemNotFound)
		// The refused signup must not RSVP the actor onto either event.
		_, err = f.attendees.FindByEmail(ctx, "event-1", "ana@example.com")
		assert.ErrorIs(t, err, attendee.ErrAttendeeNotFound)
		_, err = f.attendees.FindByEmail(ctx, "event-2", "ana@example.com")
		assert.ErrorIs(t, err, attendee.ErrAttendeeNotFound)
	})
}

func TestServiceImpl_RemoveSignup(t *testing.T) {
	t.Run("removes only the actor's own signup", func(t *testing.T) {
		f := setupService()
		anaCtx := signedInCtx("user-1", "Ana", "ana@example.com")
		bobCtx := signedInCtx("user-2", "Bob", "bob@example.com")
		f.repo.RegisterUser("user-1", "Ana", "ana@example.com")
		f.repo.RegisterUser("user-2", "Bob", "bob@example.com")
		m, err := f.service.Create(anaCtx, "event-1", Draft{Type: TypeLunch})
		require.NoError(t, err)
		item, err := f.service.AddItem(anaCtx, m.ID, ItemDraft{Name: "Salad"})
		require.NoError(t, err)
		_, err = f.service.SignUp(anaCtx, m.ID, item.ID, "")
		require.NoError(t, err)

		// Bob has no signup, so his removal attempt cannot touch Ana's.
		err = f.service.RemoveSignup(bobCtx, item.ID)
		assert.ErrorIs(t, err, ErrSignupNotFound)

		err = f.service.RemoveSignup(anaCtx, item.ID)
		require.NoError(t, err)
		_, err = f.repo.FindSignup(anaCtx, item.ID, "user-1")
		assert.ErrorIs(t, err, ErrSignupNotFound)
	})
}
