package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"resume-tailor/internal/apiclient"
	"resume-tailor/internal/profileform"
	"resume-tailor/internal/shared/patch"
	"resume-tailor/internal/theme"
	"resume-tailor/internal/viewer"
)

func runSignup(ctx context.Context, c *cli, args []string) error {
	if route, ok := c.gate.ForLogin(); !ok {
		return alreadyLoggedIn(c, string(route))
	}
	fs := newFlags("signup", c)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (at least 6 characters)")
	phone := fs.String("phone", "", "phone number (optional)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required(fs, map[string]string{"name": *name, "email": *email, "password": *password}); err != nil {
		return err
	}
	var phonePtr *string
	if p := strings.TrimSpace(*phone); p != "" {
		phonePtr = &p
	}
	sess, err := c.client.Signup(ctx, *name, *email, *password, phonePtr)
	if err != nil {
		return err
	}
	return c.begin(ctx, sess, "Signed up")
}

func runLogin(ctx context.Context, c *cli, args []string) error {
	if route, ok := c.gate.ForLogin(); !ok {
		return alreadyLoggedIn(c, string(route))
	}
	fs := newFlags("login", c)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required(fs, map[string]string{"email": *email, "password": *password}); err != nil {
		return err
	}
	sess, err := c.client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	return c.begin(ctx, sess, "Logged in")
}

func alreadyLoggedIn(c *cli, route string) error {
	user, _ := c.sess.User()
	fmt.Fprintf(c.out, "Already logged in as %s; opening %s. Run resumectl logout to switch accounts.\n", user.Email, route)
	return nil
}

// begin stores a fresh session. A failure to persist it is reported but the
// account operation itself succeeded.
func (c *cli) begin(ctx context.Context, sess apiclient.Session, verb string) error {
	c.client.SetToken(sess.AccessToken)
	if err := c.sess.Set(ctx, sess); err != nil {
		fmt.Fprintln(c.errOut, "warning: session could not be saved; you will need to log in again")
	}
	fmt.Fprintf(c.out, "%s as %s (user %d).\n", verb, sess.User.Name, sess.User.ID)
	return nil
}

func runLogout(ctx context.Context, c *cli, args []string) error {
	if err := parseFlags(newFlags("logout", c), args); err != nil {
		return err
	}
	if err := c.sess.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Logged out.")
	return nil
}

func runWhoami(ctx context.Context, c *cli, args []string) error {
	if err := parseFlags(newFlags("whoami", c), args); err != nil {
		return err
	}
	userID, err := c.sess.UserID()
	if err != nil {
		return err
	}
	user, err := c.client.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	printUser(c, user)
	return nil
}

func printUser(c *cli, u apiclient.User) {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "id\t%d\n", u.ID)
	fmt.Fprintf(tw, "name\t%s\n", u.Name)
	fmt.Fprintf(tw, "email\t%s\n", u.Email)
	fmt.Fprintf(tw, "phone\t%s\n", orDash(u.Phone))
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(tw, "member since\t%s\n", u.CreatedAt.Local().Format(time.DateOnly))
	}
	tw.Flush()
}

func runSettings(ctx context.Context, c *cli, args []string) error {
	fs := newFlags("settings", c)
	password := fs.String("password", "", "new password")
	phone := fs.String("phone", "", "new phone number")
	clearPhone := fs.Bool("clear-phone", false, "remove the phone number")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	var p apiclient.SettingsPatch
	if *password != "" {
		p.Password = patch.Set(*password)
	}
	switch {
	case *clearPhone && *phone != "":
		return usageError("settings: -phone and -clear-phone are mutually exclusive")
	case *clearPhone:
		p.Phone = patch.Clear[string]()
	case *phone != "":
		p.Phone = patch.Set(*phone)
	}
	if p.Password.IsZero() && p.Phone.IsZero() {
		return usageError("settings: nothing to update (use -password, -phone or -clear-phone)")
	}

	userID, err := c.sess.UserID()
	if err != nil {
		return err
	}
	user, err := c.client.UpdateSettings(ctx, userID, p)
	if err != nil {
		return err
	}
	if err := c.sess.SetUser(ctx, user); err != nil {
		fmt.Fprintln(c.errOut, "warning: session could not be saved")
	}
	fmt.Fprintln(c.out, "Settings updated.")
	printUser(c, user)
	return nil
}

func runProfiles(ctx context.Context, c *cli, args []string) error {
	if err := parseFlags(newFlags("profiles", c), args); err != nil {
		return err
	}
	userID, err := c.sess.UserID()
	if err != nil {
		return err
	}
	profiles, err := c.client.FetchProfiles(ctx, userID)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		fmt.Fprintln(c.out, "No profiles yet. Create one with resumectl profile-create or profile-upload.")
		return nil
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPROFILE\tNAME\tEMAIL\tCREATED")
	for _, p := range profiles {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.ProfileName, p.Name, p.Email, formatTime(p.CreatedAt))
	}
	return tw.Flush()
}

// formFlags binds every profile form field to fs.
func formFlags(fs *flag.FlagSet, f *profileform.Form) {
	fs.StringVar(&f.ProfileName, "profile-name", f.ProfileName, "profile name")
	fs.StringVar(&f.Name, "name", f.Name, "full name")
	fs.StringVar(&f.Email, "email", f.Email, "email address")
	fs.StringVar(&f.Phone, "phone", f.Phone, "phone number")
	fs.StringVar(&f.Address, "address", f.Address, "address")
	fs.StringVar(&f.Links, "links", f.Links, "links, one per line")
	fs.StringVar(&f.Education, "education", f.Education, "education, one entry per line")
	fs.StringVar(&f.Experience, "experience", f.Experience, "experience, one entry per line")
	fs.StringVar(&f.Skills, "skills", f.Skills, "skills, comma separated")
	fs.StringVar(&f.Certifications, "certifications", f.Certifications, "certifications, one per line")
	fs.StringVar(&f.Projects, "projects", f.Projects, "projects, one per line")
	fs.StringVar(&f.Languages, "languages", f.Languages, "languages, comma separated")
	fs.StringVar(&f.Hobbies, "hobbies", f.Hobbies, "hobbies")
}

func runProfileCreate(ctx context.Context, c *cli, args []string) error {
	fs := newFlags("profile-create", c)
	var form profileform.Form
	formFlags(fs, &form)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	return submitProfile(ctx, c, form)
}

func submitProfile(ctx context.Context, c *cli, form profileform.Form) error {
	in, err := form.Input()
	if err != nil {
		return usageError(err.Error())
	}
	userID, err := c.sess.UserID()
	if err != nil {
		return err
	}
	profile, err := c.client.CreateProfile(ctx, userID, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Profile %q created (id %d).\n", profile.ProfileName, profile.ID)
	return nil
}

// runProfileUpload parses a PDF into a draft form. The draft is printed for
// review and only submitted with -submit; flags override parsed fields.
func runProfileUpload(ctx context.Context, c *cli, args []string) error {
	fs := newFlags("profile-upload", c)
	file := fs.String("file", "", "PDF resume to parse")
	submit := fs.Bool("submit", false, "create the profile after parsing")
	var overrides profileform.Form
	formFlags(fs, &overrides)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required(fs, map[string]string{"file": *file}); err != nil {
		return err
	}
	if !strings.EqualFold(filepath.Ext(*file), ".pdf") {
		return usageError("profile-upload: only PDF files are accepted")
	}
	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer f.Close()

	parsed, err := c.client.UploadResumePDF(ctx, filepath.Base(*file), f)
	if err != nil {
		return err
	}
	form := profileform.FromParsed(parsed)
	applyOverrides(&form, overrides)

	if !*submit {
		printForm(c, form)
		fmt.Fprintln(c.out, "\nReview the draft, then rerun with -submit -profile-name NAME (and any corrections as flags).")
		return nil
	}
	return submitProfile(ctx, c, form)
}

func applyOverrides(form *profileform.Form, o profileform.Form) {
	set := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	set(&form.ProfileName, o.ProfileName)
	set(&form.Name, o.Name)
	set(&form.Email, o.Email)
	set(&form.Phone, o.Phone)
	set(&form.Address, o.Address)
	set(&form.Links, o.Links)
	set(&form.Education, o.Education)
	set(&form.Experience, o.Experience)
	set(&form.Skills, o.Skills)
	set(&form.Certifications, o.Certifications)
	set(&form.Projects, o.Projects)
	set(&form.Languages, o.Languages)
	set(&form.Hobbies, o.Hobbies)
}

func printForm(c *cli, f profileform.Form) {
	fields := []struct{ label, value string }{
		{"Profile name", f.ProfileName},
		{"Name", f.Name},
		{"Email", f.Email},
		{"Phone", f.Phone},
		{"Address", f.Address},
		{"Links", f.Links},
		{"Education", f.Education},
		{"Experience", f.Experience},
		{"Skills", f.Skills},
		{"Certifications", f.Certifications},
		{"Projects", f.Projects},
		{"Languages", f.Languages},
		{"Hobbies", f.Hobbies},
	}
	for _, field := range fields {
		value := field.value
		if strings.TrimSpace(value) == "" {
			value = "-"
		}
		fmt.Fprintf(c.out, "%s:\n", field.label)
		for _, line := range strings.Split(value, "\n") {
			fmt.Fprintf(c.out, "  %s\n", line)
		}
	}
}

func runResumes(ctx context.Context, c *cli, args []string) error {
	if err := parseFlags(newFlags("resumes", c), args); err != nil {
		return err
	}
	userID, err := c.sess.UserID()
	if err != nil {
		return err
	}
	resumes, err := c.client.FetchResumes(ctx, userID)
	if err != nil {
		return err
	}
	if len(resumes) == 0 {
		fmt.Fprintln(c.out, "No resumes yet. Create one with resumectl generate.")
		return nil
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tJOB TITLE\tPROFILE\tCREATED")
	for _, r := range resumes {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", r.ID, r.Name, r.JobTitle, r.UserResumeID, formatTime(r.CreatedAt))
	}
	return tw.Flush()
}

// runResume shows metadata and PDF availability independently: one failing
// does not hide the other.
func runResume(ctx context.Context, c *cli, args []string) error {
	fs := newFlags("resume", c)
	id := fs.Int64("id", 0, "resume id")
	showLatex := fs.Bool("latex", false, "print the LaTeX source")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		return usageError("resume: -id is required")
	}
	userID, err := c.sess.UserID()
	if err != nil {
		return err
	}

	loader := viewer.NewLoader(c.client, "")
	defer loader.Release()
	view, err := loader.Load(ctx, userID, *id)
	if err != nil {
		return err
	}

	if view.ResumeErr != nil {
		fmt.Fprintf(c.out, "Details: %s\n", apiclient.Message(view.ResumeErr))
	} else {
		r := view.Resume
		tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "id\t%d\n", r.ID)
		fmt.Fprintf(tw, "name\t%s\n", r.Name)
		fmt.Fprintf(tw, "job title\t%s\n", r.JobTitle)
		fmt.Fprintf(tw, "profile\t%d\n", r.UserResumeID)
		fmt.Fprintf(tw, "created\t%s\n", formatTime(r.CreatedAt))
		tw.Flush()
		if strings.TrimSpace(r.JobDescription) != "" {
			fmt.Fprintf(c.out, "\n%s\n", r.JobDescription)
		}
		if *showLatex && r.NewResume != nil {
			fmt.Fprintf(c.out, "\n%s\n", *r.NewResume)
		}
	}

	if view.PDFErr != nil {
		fmt.Fprintf(c.out, "PDF: %s\n", apiclient.Message(view.PDFErr))
		return nil
	}
	info, err := os.Stat(view.PDFPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "PDF: ready (%d bytes). Save it with resumectl pdf -id %d.\n", info.Size(), *id)
	return nil
}

func runGenerate(ctx context.Context, c *cli, args []string) error {
	fs := newFlags("generate", c)
	profileID := fs.Int64("profile", 0, "profile id to tailor")
	name := fs.String("name", "", "name for the generated resume")
	title := fs.String("title", "", "job title")
	description := fs.String("description", "", "job description")
	descriptionFile := fs.String("description-file", "", "read the job description from a file")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *descriptionFile != "" {
		body, err := os.ReadFile(*descriptionFile)
		if err != nil {
			return err
		}
		*description = string(body)
	}
	if *profileID <= 0 {
		return usageError("generate: -profile is required")
	}
	if err := required(fs, map[string]string{"name": *name, "title": *title, "description": strings.TrimSpace(*description)}); err != nil {
		return err
	}
	userID, err := c.sess.UserID()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.errOut, "Generating resume...")
	id, err := c.client.GenerateResume(ctx, userID, apiclient.GenerateInput{
		ProfileID:      *profileID,
		Name:           *name,
		JobTitle:       *title,
		JobDescription: *description,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Resume created (id %d). View it with resumectl resume -id %d.\n", id, id)
	return nil
}

func runPDF(ctx context.Context, c *cli, args []string) error {
	fs := newFlags("pdf", c)
	id := fs.Int64("id", 0, "resume id")
	out := fs.String("out", "", "destination file or directory (default: current directory)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		return usageError("pdf: -id is required")
	}
	userID, err := c.sess.UserID()
	if err != nil {
		return err
	}
	path, err := c.client.DownloadResumePDF(ctx, userID, *id, *out)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Saved %s\n", path)
	return nil
}

func runTheme(ctx context.Context, c *cli, args []string) error {
	switch len(args) {
	case 0:
		fmt.Fprintln(c.out, c.theme.Get(ctx))
		return nil
	case 1:
	default:
		return usageError("theme: expected at most one argument (light, dark or toggle)")
	}
	if args[0] == "toggle" {
		next, err := c.theme.Toggle(ctx)
		fmt.Fprintln(c.out, next)
		return err
	}
	t, err := theme.Parse(args[0])
	if err != nil {
		return usageError("theme: " + err.Error())
	}
	if err := c.theme.Set(ctx, t); err != nil {
		return err
	}
	fmt.Fprintln(c.out, t)
	return nil
}

func orDash(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "-"
	}
	return *s
}

func formatTime(t apiclient.Timestamp) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
