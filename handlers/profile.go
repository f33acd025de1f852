package handlers

import (
	"context"
	"fmt"

	"alumni/models"
	"alumni/utils"
)

func init() {
	register(
		Command{Name: "profile", Summary: "show your profile", RequiresAuth: true, Run: showProfile},
		Command{Name: "update-profile", Summary: "change profile fields", RequiresAuth: true, Run: updateProfile},
	)
}

func showProfile(ctx context.Context, a *App, args []string) error {
	if err := a.flags("profile").Parse(args); err != nil {
		return err
	}
	profile, err := a.Client.User.GetProfile(ctx)
	if err != nil {
		return err
	}
	return a.render("profile", profile)
}

// updateProfile sends the current profile with only the given flags changed.
func updateProfile(ctx context.Context, a *App, args []string) error {
	fs := a.flags("update-profile")
	firstName := fs.String("first-name", "", "first name")
	lastName := fs.String("last-name", "", "last name")
	email := fs.String("email", "", "email")
	year := fs.String("year", "", "graduation year")
	major := fs.String("major", "", "major")
	job := fs.String("job", "", "current job")
	location := fs.String("location", "", "location")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NFlag() == 0 {
		return fmt.Errorf("nothing to update; see alumni update-profile -h")
	}

	profile, err := a.Client.User.GetProfile(ctx)
	if err != nil {
		return err
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&profile.FirstName, *firstName)
	set(&profile.LastName, *lastName)
	set(&profile.Email, *email)
	set(&profile.Major, *major)
	set(&profile.CurrentJob, *job)
	set(&profile.Location, *location)
	if *year != "" {
		if err := utils.ValidateGraduationYear(*year); err != nil {
			return err
		}
		profile.GraduationYear = models.NumString(*year)
	}
	if *email != "" {
		if err := utils.ValidateEmail(*email); err != nil {
			return fmt.Errorf("invalid email: %w", err)
		}
	}

	updated, err := a.Client.User.UpdateProfile(ctx, *profile)
	if err != nil {
		return err
	}
	a.printf("Profile updated.")
	return a.render("profile", updated)
}
