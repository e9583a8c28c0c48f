package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/doudou-app/doudou/internal/app"
	"github.com/doudou-app/doudou/internal/domain"
	"github.com/doudou-app/doudou/internal/store"
	"github.com/doudou-app/doudou/pkg/validator"
)

type cli struct {
	app    *app.App
	out    io.Writer
	errOut io.Writer
}

func (c *cli) t(key string) string {
	return c.app.Language.T(key)
}

func (c *cli) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

func (c *cli) flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

func parse(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return usagef("%v", err)
	}
	return nil
}

func exactArgs(fs *pflag.FlagSet, n int) ([]string, error) {
	if fs.NArg() != n {
		return nil, usagef("expected %d argument(s), got %d", n, fs.NArg())
	}
	return fs.Args(), nil
}

// stateError turns the store's user-facing error message into a localized
// command failure.
func (c *cli) stateError(st store.State) error {
	switch st.Error {
	case "":
		return nil
	case store.ErrLoadLocations:
		return errors.New(c.t("errorLoadingLocations"))
	case store.ErrNotFound:
		return errors.New(c.t("locationNotFound"))
	case store.ErrAddLocation:
		return errors.New(c.t("errorAddingLocation"))
	case store.ErrAddReview:
		return errors.New(c.t("errorAddingReview"))
	default:
		return errors.New(st.Error)
	}
}

func runExplore(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("explore")
	query := fs.StringP("query", "q", "", "search name or address")
	locType := fs.String("type", "", "location type")
	privacy := fs.String("privacy", "", "privacy level")
	free := fs.Bool("free", false, "free locations only")
	verified := fs.Bool("verified", false, "verified locations only")
	distance := fs.Int("distance", domain.DefaultDistanceKM, "search radius in km")
	if err := parse(fs, args); err != nil {
		return err
	}

	patch := domain.FilterPatch{FreeOnly: free, VerifiedOnly: verified, DistanceKM: distance}
	if *locType != "" {
		lt := domain.LocationType(*locType)
		if !lt.IsValid() {
			return usagef("unknown location type %q", *locType)
		}
		patch.LocationType = &lt
	}
	if *privacy != "" {
		pl := domain.PrivacyLevel(*privacy)
		if !pl.IsValid() {
			return usagef("unknown privacy level %q", *privacy)
		}
		patch.PrivacyLevel = &pl
	}
	if !domain.IsDistanceOption(*distance) {
		return usagef("distance must be one of %v", domain.DistanceOptions)
	}

	s := c.app.Locations
	s.SetFilters(patch)
	if patch.LocationType == nil && patch.PrivacyLevel == nil && !*free && !*verified {
		s.Explore(ctx)
	} else {
		s.FetchLocations(ctx)
	}

	st := s.State()
	if err := c.stateError(st); err != nil {
		return err
	}

	c.printf("%s\n", c.t("explore"))
	for _, loc := range domain.Search(st.Locations, *query) {
		c.printLocation(loc)
	}
	return nil
}

func (c *cli) printLocation(loc domain.Location) {
	c.printf("%s  %s\n", loc.ID, loc.Name)
	c.printf("    %s · %s", c.t(string(loc.LocationType)), c.t(loc.PrivacyLevel.TranslationKey()))
	if loc.Verified {
		c.printf(" · %s", c.t("verified"))
	}
	c.printf("\n    %s %.1f (%d %s)\n", domain.Stars(loc.AverageRating), loc.AverageRating, loc.TotalReviews, c.t("reviews"))
	c.printf("    %s\n", loc.Address)
}

func runShow(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("show")
	if err := parse(fs, args); err != nil {
		return err
	}
	pos, err := exactArgs(fs, 1)
	if err != nil {
		return err
	}
	id := pos[0]

	s := c.app.Locations
	s.FetchLocationByID(ctx, id)
	st := s.State()
	if st.CurrentLocation == nil {
		if err := c.stateError(st); err != nil {
			return err
		}
		return errors.New(c.t("locationNotFound"))
	}
	s.FetchReviews(ctx, id)
	saved := s.CheckIfSaved(ctx, id)
	st = s.State()

	loc := *st.CurrentLocation
	c.printLocation(loc)
	if loc.Description != nil {
		c.printf("    %s\n", *loc.Description)
	}
	if saved {
		c.printf("    ♥ %s\n", c.t("saved"))
	}
	if len(loc.Amenities) > 0 {
		c.printf("    %s\n", strings.Join(c.amenityLabels(loc.Amenities), ", "))
	}

	b := st.Breakdown()
	c.printf("\n%d %s\n", len(st.Reviews), c.t("localMomsReviewed"))
	c.printf("  %-28s %.1f\n", c.t("staffFriendliness"), b.Staff)
	c.printf("  %-28s %.1f\n", c.t("comfortSeating"), b.Comfort)
	c.printf("  %-28s %.1f\n", c.t("privacyLevel"), b.Privacy)
	c.printf("  %-28s %.1f\n", c.t("safetyRating"), b.Safety)
	c.printf("  %-28s %d%%\n", c.t("wouldReturn"), b.WouldReturn)

	for _, r := range st.Reviews {
		name := r.DisplayName()
		if name == "" {
			name = "-"
		}
		c.printf("\n  %s %s  %s\n", domain.Stars(r.OverallRating), name, r.CreatedAt)
		if r.Comment != nil {
			c.printf("  %s\n", *r.Comment)
		}
		c.printf("  %s (%d)  [%s]\n", c.t("helpful"), r.HelpfulCount, r.ID)
	}
	return nil
}

func (c *cli) amenityLabels(tags []string) []string {
	keys := make(map[string]string, len(domain.Amenities))
	for _, a := range domain.Amenities {
		keys[a.Tag] = a.Key
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if key, ok := keys[tag]; ok {
			out = append(out, c.t(key))
			continue
		}
		out = append(out, tag)
	}
	return out
}

func runSaved(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("saved")
	if err := parse(fs, args); err != nil {
		return err
	}
	if _, err := exactArgs(fs, 0); err != nil {
		return err
	}

	c.app.Locations.FetchSavedLocations(ctx)
	c.printf("%s\n", c.t("saved"))
	for _, loc := range c.app.Locations.State().SavedLocations {
		c.printLocation(loc)
	}
	return nil
}

func runSave(ctx context.Context, c *cli, args []string) error {
	return toggleSaved(ctx, c, "save", args, true)
}

func runUnsave(ctx context.Context, c *cli, args []string) error {
	return toggleSaved(ctx, c, "unsave", args, false)
}

func toggleSaved(ctx context.Context, c *cli, name string, args []string, save bool) error {
	fs := c.flags(name)
	if err := parse(fs, args); err != nil {
		return err
	}
	pos, err := exactArgs(fs, 1)
	if err != nil {
		return err
	}
	id := pos[0]

	s := c.app.Locations
	if save {
		s.SaveLocation(ctx, id)
	} else {
		s.UnsaveLocation(ctx, id)
	}

	// Save and unsave never report failure; confirm against the backend.
	if s.CheckIfSaved(ctx, id) != save {
		return fmt.Errorf("%s %s failed", name, id)
	}
	if save {
		c.printf("%s\n", c.t("locationSaved"))
	} else {
		c.printf("%s\n", c.t("locationRemoved"))
	}
	return nil
}

func runAddLocation(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("add-location")
	name := fs.String("name", "", "location name")
	address := fs.String("address", "", "street address")
	lat := fs.Float64("lat", 0, "latitude")
	lng := fs.Float64("lng", 0, "longitude")
	locType := fs.String("type", "", "location type")
	privacy := fs.String("privacy", string(domain.PrivacySemiPrivate), "privacy level")
	purchase := fs.Bool("purchase", false, "requires a purchase")
	note := fs.String("note", "", "extra tips or details")
	amenities := fs.StringSlice("amenity", nil, "amenity tag (repeatable)")
	if err := parse(fs, args); err != nil {
		return err
	}

	in := domain.NewLocation{
		Name:             strings.TrimSpace(*name),
		Address:          strings.TrimSpace(*address),
		Latitude:         *lat,
		Longitude:        *lng,
		LocationType:     domain.LocationType(*locType),
		PrivacyLevel:     domain.PrivacyLevel(*privacy),
		RequiresPurchase: *purchase,
		Amenities:        *amenities,
	}
	if *note != "" {
		in.Description = note
	}
	if err := in.Validate(); err != nil {
		return validationUsage(err)
	}

	if !c.app.Locations.AddLocation(ctx, in) {
		return c.stateError(c.app.Locations.State())
	}
	c.printf("%s\n", c.t("locationAdded"))
	return nil
}

func runAddReview(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("add-review")
	staff := fs.Int("staff", 0, "staff attitude, 1-5")
	comfort := fs.Int("comfort", 0, "comfort, 1-5")
	privacy := fs.Int("privacy", 0, "privacy, 1-5")
	safety := fs.Int("safety", 0, "safety, 1-5")
	wouldReturn := fs.Bool("return", true, "would return")
	comment := fs.String("comment", "", "share your experience")
	issues := fs.StringSlice("issue", nil, "issue tag (repeatable)")
	anonymous := fs.Bool("anonymous", false, "post anonymously")
	reviewer := fs.String("name", "", "reviewer name")
	if err := parse(fs, args); err != nil {
		return err
	}
	pos, err := exactArgs(fs, 1)
	if err != nil {
		return err
	}

	in := domain.NewReview{
		LocationID:    pos[0],
		StaffRating:   *staff,
		ComfortRating: *comfort,
		PrivacyRating: *privacy,
		SafetyRating:  *safety,
		WouldReturn:   *wouldReturn,
		Anonymous:     *anonymous,
	}
	for _, is := range *issues {
		in.Issues = domain.ToggleIssue(in.Issues, domain.Issue(is))
	}
	if *comment != "" {
		in.Comment = comment
	}
	if *reviewer != "" {
		in.ReviewerName = reviewer
	}
	if err := in.Validate(); err != nil {
		return validationUsage(err)
	}

	if !c.app.Locations.AddReview(ctx, in) {
		return c.stateError(c.app.Locations.State())
	}
	c.printf("%s\n", c.t("reviewAdded"))
	return nil
}

func validationUsage(err error) error {
	var valErr *validator.ValidationError
	if !errors.As(err, &valErr) {
		return err
	}
	fields := valErr.Fields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, name+" "+fields[name])
	}
	return usagef("%s", strings.Join(msgs, "; "))
}

func runHelpful(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("helpful")
	if err := parse(fs, args); err != nil {
		return err
	}
	pos, err := exactArgs(fs, 2)
	if err != nil {
		return err
	}
	reviewID, locationID := pos[0], pos[1]

	s := c.app.Locations
	s.FetchReviews(ctx, locationID)
	before := helpfulCount(s.State().Reviews, reviewID)
	s.MarkReviewHelpful(ctx, reviewID)
	after := helpfulCount(s.State().Reviews, reviewID)
	if after < 0 || after == before {
		return fmt.Errorf("review %s was not updated", reviewID)
	}
	c.printf("%s (%d)\n", c.t("helpful"), after)
	return nil
}

func helpfulCount(reviews []domain.Review, id string) int {
	for _, r := range reviews {
		if r.ID == id {
			return r.HelpfulCount
		}
	}
	return -1
}

func runSeed(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("seed")
	if err := parse(fs, args); err != nil {
		return err
	}

	s := c.app.Locations
	s.SeedData(ctx)
	st := s.State()
	if err := c.stateError(st); err != nil {
		return err
	}
	c.printf("%d\n", len(st.Locations))
	return nil
}

func runLang(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("lang")
	if err := parse(fs, args); err != nil {
		return err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		lang, ok := domain.ParseLanguage(fs.Arg(0))
		if !ok {
			return usagef("unsupported language %q", fs.Arg(0))
		}
		c.app.Language.SetLanguage(ctx, lang)
	default:
		return usagef("expected at most 1 argument, got %d", fs.NArg())
	}

	c.printf("%s\n", c.app.Language.Language())
	return nil
}

func runPing(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("ping")
	if err := parse(fs, args); err != nil {
		return err
	}

	msg, err := c.app.Locations.Ping(ctx)
	if err != nil {
		return fmt.Errorf("ping %s: %w", c.app.Client.BaseURL(), err)
	}
	c.printf("%s\n", msg)

	report := c.app.Health.Check(ctx)
	for _, name := range report.Names() {
		res := report.Checks[name]
		c.printf("  %-12s %s", name, res.Status)
		if res.Error != "" {
			c.printf("  %s", res.Error)
		}
		c.printf("\n")
	}
	if !report.Healthy() {
		return errors.New("unhealthy")
	}
	return nil
}

func runFakeAPI(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("fake-api")
	seed := fs.Bool("seed", true, "load the demo data set")
	if err := parse(fs, args); err != nil {
		return err
	}
	return c.app.FakeServer(*seed).Run(ctx)
}
