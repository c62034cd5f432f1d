package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/dom/daily-checkin/internal/logger"
)

const demoPassword = "demopassword123"

var demoHabits = []struct {
	description string
	weekdays    []int
}{
	{"Morning run", []int{1, 3, 5}},
	{"Read 20 pages", nil},
	{"Practice guitar", []int{2, 4, 6}},
	{"Meal prep", []int{0}},
}

var missReasons = []string{
	"Overslept",
	"Long day at work",
	"Feeling sick",
	"",
}

type DemoCmd struct {
	Users int    `help:"Number of demo users to create." default:"3"`
	Days  int    `help:"Days of history to back-fill, ending today." default:"7"`
	Seed  int64  `help:"Random seed; 0 picks one from the clock." default:"0"`
	Name  string `help:"Display name prefix." default:"demo"`
}

func (c *DemoCmd) Run(ctx *Context) error {
	if c.Users < 1 || c.Users > 20 {
		return fmt.Errorf("--users must be between 1 and 20")
	}
	rng := newRand(c.Seed)
	today := time.Now().UTC().Truncate(24 * time.Hour)

	for i := 1; i <= c.Users; i++ {
		name := fmt.Sprintf("%s_%d", c.Name, i)
		user, token, err := ctx.Client.RegisterUser(name, demoPassword)
		if err != nil {
			return err
		}
		logger.Info("user ready", "name", user.DisplayName, "id", user.ID)

		for _, habit := range demoHabits {
			if _, err := ctx.Client.CreateRecurring(token, habit.description, habit.weekdays); err != nil {
				return err
			}
		}
		if _, err := ctx.Client.CreateTemporary(token, "Finish quarterly report", today.AddDate(0, 0, -2), today.AddDate(0, 0, 2)); err != nil {
			return err
		}

		created, err := backfill(ctx.Client, token, today, c.Days, rng)
		if err != nil {
			return err
		}
		logger.Info("history seeded", "name", user.DisplayName, "checkins", created)
	}

	fmt.Printf("Seeded %d users (password %q)\n", c.Users, demoPassword)
	return nil
}

type CheckinCmd struct {
	User     string `help:"Display name to log in as." required:""`
	Password string `help:"Password for the user." default:"demopassword123"`
	Days     int    `help:"Days of history to back-fill, ending today." default:"7"`
	Seed     int64  `help:"Random seed; 0 picks one from the clock." default:"0"`
}

func (c *CheckinCmd) Run(ctx *Context) error {
	_, token, err := ctx.Client.Login(c.User, c.Password)
	if err != nil {
		return err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	created, err := backfill(ctx.Client, token, today, c.Days, newRand(c.Seed))
	if err != nil {
		return err
	}

	fmt.Printf("Recorded %d check-ins for %s\n", created, c.User)
	return nil
}

// backfill walks the last days ending at today and marks unset items with a
// random status. Items that already carry a status are left alone, since
// toggling them again would clear them.
func backfill(client *APIClient, token string, today time.Time, days int, rng *rand.Rand) (int, error) {
	if days < 1 || days > 62 {
		return 0, fmt.Errorf("--days must be between 1 and 62")
	}

	created := 0
	for offset := days - 1; offset >= 0; offset-- {
		day := today.AddDate(0, 0, -offset)
		view, err := client.Schedule(token, day)
		if err != nil {
			return created, err
		}

		for _, item := range view.Items {
			if item.Status != nil {
				continue
			}
			status := "completed"
			if rng.Intn(4) == 0 {
				status = "not_completed"
			}

			result, err := client.Toggle(token, item.DefinitionID, day, status)
			if err != nil {
				return created, err
			}
			created++

			if status == "not_completed" && result.EntryID != nil {
				if reason := missReasons[rng.Intn(len(missReasons))]; reason != "" {
					if err := client.SetReason(token, *result.EntryID, reason); err != nil {
						return created, err
					}
				}
			}
		}
		logger.Debug("day seeded", "date", day.Format("2006-01-02"), "items", len(view.Items))
	}
	return created, nil
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
