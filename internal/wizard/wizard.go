// Package wizard collects district setup answers through an interactive form.
package wizard

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/blizzardhq/blizzard/internal/district"
)

// DistrictSpec holds all fields collected during the interactive wizard.
type DistrictSpec struct {
	ZipCode          string
	State            string
	CommunityType    string
	WinterExperience string
	BusDependentPct  int
	SnowDaysAllotted int
	Environment      string
}

// RunDistrictWizard runs an interactive huh form to collect district setup
// answers. Defaults pre-populate every field so Enter-through works.
func RunDistrictWizard(in io.Reader, out io.Writer) (*DistrictSpec, error) {
	var (
		zipCode       = "49341"
		state         string
		communityType string
		winterExp     string
		busPctRaw     = "70"
		snowDaysRaw   = "6"
		environment   = "development"
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("ZIP code").
				Description("Forecast location for the district").
				Placeholder("49341").
				Value(&zipCode).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if len(s) != 5 {
						return fmt.Errorf("ZIP code must be 5 digits")
					}
					if _, err := strconv.Atoi(s); err != nil {
						return fmt.Errorf("ZIP code must be numeric")
					}
					return nil
				}),
			huh.NewInput().
				Title("State").
				Placeholder("Michigan").
				Value(&state),
			huh.NewSelect[string]().
				Title("Community type").
				Options(
					huh.NewOption("rural", "rural"),
					huh.NewOption("suburban", "suburban"),
					huh.NewOption("urban", "urban"),
				).
				Value(&communityType),
			huh.NewSelect[string]().
				Title("Winter experience").
				Description("How accustomed is the district to winter weather?").
				Options(
					huh.NewOption("high - hardy northern district", "high"),
					huh.NewOption("moderate", "moderate"),
					huh.NewOption("low - closures come easily", "low"),
				).
				Value(&winterExp),
			huh.NewInput().
				Title("Bus-dependent students (%)").
				Value(&busPctRaw).
				Validate(validatePercent),
			huh.NewInput().
				Title("Allotted snow days").
				Value(&snowDaysRaw).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 0 {
						return fmt.Errorf("must be a non-negative number")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Environment").
				Options(
					huh.NewOption("development", "development"),
					huh.NewOption("production", "production"),
				).
				Value(&environment),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	busPct, _ := strconv.Atoi(strings.TrimSpace(busPctRaw))
	snowDays, _ := strconv.Atoi(strings.TrimSpace(snowDaysRaw))

	return &DistrictSpec{
		ZipCode:          strings.TrimSpace(zipCode),
		State:            strings.TrimSpace(state),
		CommunityType:    communityType,
		WinterExperience: winterExp,
		BusDependentPct:  busPct,
		SnowDaysAllotted: snowDays,
		Environment:      environment,
	}, nil
}

// Settings converts the collected answers into district settings.
func (d *DistrictSpec) Settings() *district.Settings {
	return &district.Settings{
		SnowDays: district.SnowDays{Allotted: d.SnowDaysAllotted},
		Community: district.Community{
			State:               d.State,
			Type:                d.CommunityType,
			WinterExperience:    d.WinterExperience,
			BusDependentPercent: d.BusDependentPct,
		},
	}
}

func validatePercent(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > 100 {
		return fmt.Errorf("must be a number between 0 and 100")
	}
	return nil
}
