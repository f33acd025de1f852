package handlers

import (
	"context"

	"alumni/models"
	"alumni/utils"
)

func init() {
	register(
		Command{Name: "jobs", Summary: "list job postings", Run: listJobs},
		Command{Name: "job", Summary: "show one job posting", Run: showJob},
		Command{Name: "create-job", Summary: "post a job", RequiresAuth: true, Run: createJob},
	)
}

func listJobs(ctx context.Context, a *App, args []string) error {
	if err := a.flags("jobs").Parse(args); err != nil {
		return err
	}
	jobs, err := a.Client.Jobs.GetJobs(ctx)
	if err != nil {
		return err
	}
	return a.render("jobs", jobs)
}

func showJob(ctx context.Context, a *App, args []string) error {
	fs := a.flags("job")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := oneArg(fs, "job-id")
	if err != nil {
		return err
	}
	job, err := a.Client.Jobs.GetJobDetails(ctx, id)
	if err != nil {
		return err
	}
	return a.render("job", job)
}

func createJob(ctx context.Context, a *App, args []string) error {
	fs := a.flags("create-job")
	var in models.JobInput
	fs.StringVar(&in.Title, "title", "", "job title")
	fs.StringVar(&in.Company, "company", "", "company")
	fs.StringVar(&in.Location, "location", "", "location")
	fs.StringVar(&in.Description, "description", "", "description")
	requirements := fs.String("requirements", "", "requirements, comma or newline separated")
	fs.StringVar(&in.Salary, "salary", "", "salary")
	deadline := fs.String("deadline", "", "application deadline (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in.Requirements = models.SplitList(*requirements)
	if *deadline != "" {
		d, err := models.ParseDate(*deadline)
		if err != nil {
			return err
		}
		in.ApplicationDeadline = &d
	}
	if err := utils.ValidateJobInput(in); err != nil {
		return err
	}

	job, err := a.Client.Jobs.CreateJob(ctx, in)
	if err != nil {
		return err
	}
	a.printf("Posted job %s.", job.ID)
	return nil
}
