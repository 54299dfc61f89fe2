package cli

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/kaptinlin/jsonschema"
	"github.com/spf13/cobra"

	"github.com/VladmirB/sigmah/internal/command"
	"github.com/VladmirB/sigmah/internal/criteria"
	"github.com/VladmirB/sigmah/internal/handler"
	"github.com/VladmirB/sigmah/internal/indicator"
)

//go:embed request.schema.json
var requestSchemaJSON []byte

// SitesOptions holds flags for the sites command.
type SitesOptions struct {
	User        int
	Activity    int
	Database    int
	Site        int
	Assessments bool
	Filter      string
	Sort        string
	Dir         string
	Offset      int
	Limit       int
	Seek        int
	Request     string
}

// queryFlags are the flags a --request file replaces.
var queryFlags = []string{"activity", "database", "site", "assessments", "filter", "sort", "dir", "offset", "limit", "seek"}

// NewSitesCommand creates the sites command.
func NewSitesCommand(root *RootOptions) *cobra.Command {
	opts := &SitesOptions{}

	cmd := &cobra.Command{
		Use:   "sites",
		Short: "Query one page of sites",
		Long: `Query one page of the sites the user may view.

The request is built from flags, or read from a JSON file with --request:

  {"activity_id": 1, "filter": "partner:1", "sort_info": {"field": "date1", "dir": "DESC"}, "limit": 20}

The reported total counts every matching site, whatever the page window.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSites(cmd, root, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.User, "user", "u", 0, "id of the user running the query (required)")
	cmd.Flags().IntVar(&opts.Activity, "activity", 0, "restrict to one activity")
	cmd.Flags().IntVar(&opts.Database, "database", 0, "restrict to one database")
	cmd.Flags().IntVar(&opts.Site, "site", 0, "fetch a single site")
	cmd.Flags().BoolVar(&opts.Assessments, "assessments", false, "only sites of assessment activities")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "free-text filter, e.g. \"partner:1 status:0\"")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "sort column: date1, date2, locationName, partner, I<id>, a<id>...")
	cmd.Flags().StringVar(&opts.Dir, "dir", "asc", "sort direction (asc|desc)")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "index of the first site")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "page size (0 for every site, capped by query.max_limit)")
	cmd.Flags().IntVar(&opts.Seek, "seek", 0, "return the page holding this site id")
	cmd.Flags().StringVar(&opts.Request, "request", "", "read the request from a JSON file")
	cmd.MarkFlagRequired("user")

	return cmd
}

func runSites(cmd *cobra.Command, root *RootOptions, opts *SitesOptions) error {
	var (
		req *command.GetSites
		err error
	)
	if opts.Request != "" {
		for _, name := range queryFlags {
			if cmd.Flags().Changed(name) {
				return NewExitError(ExitCommandError, fmt.Sprintf("--%s cannot be combined with --request", name))
			}
		}
		req, err = loadRequest(opts.Request)
	} else {
		req, err = opts.request()
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid request", err)
	}

	st, err := root.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	user, err := st.FindUser(ctx, opts.User)
	if err != nil {
		return WrapExitError(ExitCommandError, "unknown user", err)
	}

	cfg := root.cfg()
	indicators, err := indicator.NewService(st, cfg.Query.IndicatorCacheSize)
	if err != nil {
		return err
	}
	h := handler.NewGetSitesHandler(st.Sites(), indicators, handler.WithMaxLimit(cfg.Query.MaxLimit))

	out := root.formatter(cmd)
	result, err := h.Execute(ctx, user, req)
	if err != nil {
		if ferr := out.CommandError(err); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitFailure, "get sites failed", err)
	}
	out.VerboseLog("user %d: %d of %d sites from offset %d", user.ID, len(result.Sites), result.TotalLength, result.Offset)
	return out.Success(sitesPage{result})
}

// request builds a request from flags.
func (o *SitesOptions) request() (*command.GetSites, error) {
	dir, err := command.ParseSortDir(o.Dir)
	if err != nil {
		return nil, err
	}
	req := &command.GetSites{
		AssessmentsOnly: o.Assessments,
		Filter:          o.Filter,
		Offset:          o.Offset,
		Limit:           o.Limit,
	}
	if o.Sort != "" {
		req.SortInfo = command.SortInfo{Field: o.Sort, Dir: dir}
	}
	req.SiteID = optionalID(o.Site)
	req.ActivityID = optionalID(o.Activity)
	req.DatabaseID = optionalID(o.Database)
	req.SeekToSiteID = optionalID(o.Seek)
	return req, nil
}

func optionalID(id int) *int {
	if id <= 0 {
		return nil
	}
	return &id
}

// loadRequest reads a JSON request file and checks it against the request
// schema before decoding.
func loadRequest(path string) (*command.GetSites, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var req command.GetSites
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &req, nil
}

func validateRequest(data []byte) error {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(requestSchemaJSON)
	if err != nil {
		return fmt.Errorf("compile request schema: %w", err)
	}
	result := schema.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}
	return fmt.Errorf("schema validation failed: %v", result.Errors)
}

// sitesPage is a GetSites result with a table form.
type sitesPage struct {
	*command.SiteResult
}

var siteColumns = []string{"ID", "Activity", "Start", "End", "Location", "Partner", "Status"}

func (p sitesPage) renderText(s styles) string {
	if len(p.Sites) == 0 {
		return s.muted(fmt.Sprintf("no sites (%d total)", p.TotalLength))
	}

	rows := make([][]string, len(p.Sites))
	for i, site := range p.Sites {
		partner := ""
		if site.Partner != nil {
			partner = site.Partner.Name
		}
		rows[i] = []string{
			strconv.Itoa(site.ID),
			strconv.Itoa(site.ActivityID),
			formatDay(site.Date1),
			formatDay(site.Date2),
			site.LocationName,
			partner,
			strconv.Itoa(site.Status),
		}
	}

	summary := fmt.Sprintf("sites %d-%d of %d", p.Offset+1, p.Offset+len(p.Sites), p.TotalLength)
	return s.table(siteColumns, rows) + "\n" + s.muted(summary)
}

func formatDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(criteria.DateLayout)
}
