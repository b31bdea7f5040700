package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/staffmatch/internal/candidate"
	"github.com/spigell/staffmatch/internal/logger"
	"github.com/spigell/staffmatch/internal/ranking"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank candidates for a vacancy, a company or a selected candidate",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("target", "t", "", "id of the vacancy, company or contact to match against")
	matchCmd.Flags().String("similar-to", "", "id of a candidate to find peers for")
	matchCmd.Flags().StringP("mode", "m", "", "ranking mode: points, distance_only or ai")
	matchCmd.Flags().StringP("profile", "p", "", "weight profile (see the profiles command)")
	matchCmd.Flags().IntP("limit", "n", 0, "maximum number of candidates to print, 0 prints all")
	matchCmd.Flags().Int("shortlist", 0, "number of top candidates sent to the ai stage")
	matchCmd.Flags().String("self", "", "candidate id to leave out of the result")
	matchCmd.Flags().String("requester", "", "owner whose claimed candidates stay eligible")
	matchCmd.Flags().Bool("require-document", false, "only keep candidates with a retrievable profile document")
	matchCmd.Flags().Bool("criteria", false, "apply minimum quality, experience and driving license of the target")
	matchCmd.Flags().StringP("output", "o", outputTable, "output format: table or json")
	matchCmd.Flags().BoolP("interactive", "i", false, "ask for the ranking mode")

	viper.BindPFlag("matching.mode", matchCmd.Flags().Lookup("mode"))
	viper.BindPFlag("matching.profile", matchCmd.Flags().Lookup("profile"))
	viper.BindPFlag("matching.limit", matchCmd.Flags().Lookup("limit"))
	viper.BindPFlag("matching.shortlist-size", matchCmd.Flags().Lookup("shortlist"))
	viper.BindPFlag("matching.requester", matchCmd.Flags().Lookup("requester"))
}

func match(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	targetID, _ := cmd.Flags().GetString("target")
	similarTo, _ := cmd.Flags().GetString("similar-to")
	if (targetID == "") == (similarTo == "") {
		logger.Fatal("exactly one of --target and --similar-to is required")
	}

	mode := ranking.Mode(config.Matching.Mode)
	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive && !cmd.Flags().Changed("mode") {
		mode, err = promptMode()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
	}

	repo, closeRepo, err := openRepository(ctx, config.Repository)
	if err != nil {
		logger.Fatal("opening the candidate repository", zap.Error(err))
	}
	defer closeRepo()

	opts := ranking.Options{
		Profile:           config.Matching.Profile,
		ShortlistSize:     config.Matching.ShortlistSize,
		Limit:             config.Matching.Limit,
		Requester:         config.Matching.Requester,
		Timeout:           config.Matching.Timeout,
		ParallelThreshold: config.Matching.ParallelThreshold,
	}
	opts.SelfID, _ = cmd.Flags().GetString("self")
	opts.RequireDocument, _ = cmd.Flags().GetBool("require-document")
	opts.ApplyCriteria, _ = cmd.Flags().GetBool("criteria")

	custom, err := customProfiles(config.Matching.Profiles)
	if err != nil {
		logger.Fatal("reading custom weight profiles", zap.Error(err))
	}
	if p, ok := custom[opts.Profile]; ok {
		opts.Weights = &p
	}

	req := ranking.Request{TargetID: targetID, Mode: mode, Options: opts}
	if similarTo != "" {
		subject, err := repo.Candidate(ctx, similarTo)
		if err != nil {
			logger.Fatal("loading the selected candidate", zap.Error(err))
		}
		req.Target = candidate.PeerTarget(subject, config.Matching.PeerRadiusKm)
		req.Options.SelfID = subject.ID
	}

	engineOpts := []ranking.EngineOption{ranking.WithLocale(parseLocale(config.Matching.Locale))}

	docsNeeded := config.Documents.Enabled || opts.RequireDocument
	if docsNeeded {
		enricher, extractor, closeDocs, err := documentStack(ctx, config.Documents, logger)
		if err != nil {
			logger.Fatal("preparing document extraction", zap.Error(err))
		}
		defer closeDocs()

		if config.Documents.Enabled {
			engineOpts = append(engineOpts, ranking.WithEnricher(enricher))
		}
		if probe, ok := extractor.(interface {
			Retrievable(ctx context.Context, rawURL string) bool
		}); ok {
			engineOpts = append(engineOpts, ranking.WithDocumentProbe(probe))
		}
	}

	if mode == ranking.ModeAI {
		reranker, err := newReranker(ctx, config.AI, config.Documents.MaxChars, logger)
		if err != nil {
			// The ranking still works; it just stays deterministic.
			logger.Warn("ai stage unavailable", zap.Error(err))
		} else {
			engineOpts = append(engineOpts, ranking.WithReranker(reranker))
		}
	}

	engine := ranking.NewEngine(repo, repo, logger, engineOpts...)
	result, err := engine.Match(ctx, req)
	if err != nil {
		logger.Fatal("matching failed", zap.Error(err))
	}

	if result.AIFailure != "" {
		logger.Warn("ai ranking not applied", zap.String("reason", result.AIFailure))
	}

	output, _ := cmd.Flags().GetString("output")
	if err := render(os.Stdout, output, result); err != nil {
		logger.Fatal("printing the result", zap.Error(err))
	}
}

func promptMode() (ranking.Mode, error) {
	modes := ranking.Modes()
	items := make([]string, 0, len(modes))
	for _, m := range modes {
		items = append(items, string(m))
	}

	prompt := promptui.Select{
		Label: "Ranking mode",
		Items: items,
	}
	_, choice, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return ranking.Mode(choice), nil
}

func render(w io.Writer, format string, result *ranking.Result) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case outputTable, "":
		return renderTable(w, result)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderTable(w io.Writer, result *ranking.Result) error {
	fmt.Fprintf(w, "request %s, mode %s, profile %s, %d eligible\n\n",
		result.RequestID, result.Mode, result.Profile, result.Eligible)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	showAI := result.AIApplied
	header := "#\tID\tNAME\tPOSITION\tLOCATION\tKM\tSCORE"
	if showAI {
		header += "\tAI\tREASON"
	}
	fmt.Fprintln(tw, header)

	for i, c := range result.Candidates {
		km := "-"
		if c.DistanceKm != nil {
			km = strconv.FormatFloat(*c.DistanceKm, 'f', 1, 64)
		}
		line := fmt.Sprintf("%d\t%s\t%s\t%s\t%s\t%s\t%s",
			i+1, c.ID, c.Name, c.Position, c.Location, km, strconv.FormatFloat(c.Score, 'f', 1, 64))
		if showAI {
			ai := "-"
			if c.AIScore != nil {
				ai = strconv.FormatFloat(*c.AIScore, 'f', 0, 64)
			}
			line += fmt.Sprintf("\t%s\t%s", ai, c.MatchReason)
		}
		fmt.Fprintln(tw, line)
	}
	return tw.Flush()
}
