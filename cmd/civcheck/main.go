// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/motiongranted/citeverify/caselaw"
	"github.com/motiongranted/citeverify/citations"
	"github.com/motiongranted/citeverify/gaps"
	"github.com/motiongranted/citeverify/logger"
	"github.com/motiongranted/citeverify/research"
	"github.com/motiongranted/citeverify/verification"
)

const version = "0.2.0"

var (
	apiURL       string
	apiToken     string
	jurisdiction string
	debug        bool
	resolve      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "civcheck",
		Short:   "Citation verification tooling for motion drafts",
		Long:    `Developer tooling for the citation verification pipeline: scan a draft for unresolved citation gaps, extract its citations, and verify them against the case-law API.`,
		Version: version,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Case-law API base URL (or set CASELAW_API_URL)")
	rootCmd.PersistentFlags().StringVar(&apiToken, "api-token", "", "Case-law API bearer token (or set CASELAW_API_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&jurisdiction, "jurisdiction", "Louisiana", "Jurisdiction for supplemental searches")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	scanCmd := &cobra.Command{
		Use:   "scan <draft-file>",
		Short: "Scan a draft for citation gap placeholders",
		Args:  cobra.ExactArgs(1),
		RunE:  runScan,
	}
	scanCmd.Flags().BoolVar(&resolve, "resolve", false, "Attempt to resolve detected gaps against the case-law API")

	verifyCmd := &cobra.Command{
		Use:   "verify <draft-file>",
		Short: "Extract citations from a draft and verify them",
		Args:  cobra.ExactArgs(1),
		RunE:  runVerify,
	}

	rootCmd.AddCommand(scanCmd, verifyCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	draft, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read draft: %w", err)
	}

	log := logger.New(debug)
	cfg := research.DefaultElementConfig()
	detector := gaps.NewDetector(cfg, log, nil)

	detected := detector.DetectGaps(string(draft))
	if len(detected) == 0 {
		fmt.Println("No citation gaps found.")
		return nil
	}

	for _, gap := range detected {
		location := fmt.Sprintf("line %d", gap.LineNumber)
		if gap.Section != "" {
			location = fmt.Sprintf("%s (line %d)", gap.Section, gap.LineNumber)
		}
		fmt.Printf("%s: %s [%s]\n", gap.Placeholder, location, gap.Element)
	}

	if !resolve {
		return nil
	}

	client, err := newClient(log)
	if err != nil {
		return err
	}
	defer client.Close()

	verifier := verification.NewVerifier(client, log, nil)
	resolver := gaps.NewResolver(cfg, client, verifier, log, nil)

	resolutions, err := resolver.ResolveAll(cmd.Context(), detected, jurisdiction)
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolution stopped early: %v\n", err)
	}

	report := gaps.BuildReport(resolutions, nil)
	fmt.Print(report.Render())
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	draft, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read draft: %w", err)
	}

	log := logger.New(debug)
	client, err := newClient(log)
	if err != nil {
		return err
	}
	defer client.Close()

	extracted := citations.ExtractCitations(string(draft))
	verifier := verification.NewVerifier(client, log, nil)

	exitFail := false
	for _, citation := range extracted {
		if !citation.IsResolvable() {
			continue
		}
		result, err := verifier.Verify(cmd.Context(), citation.Value)
		if err != nil {
			return fmt.Errorf("verification aborted: %w", err)
		}
		fmt.Printf("%-18s line %-5d %s\n", result.Status, citation.LineNumber, citation.Value)
		if result.Status == verification.StatusNotFound {
			exitFail = true
		}
	}

	if exitFail {
		return fmt.Errorf("one or more citations were not found")
	}
	return nil
}

func newClient(log logger.Logger) (*caselaw.Client, error) {
	if apiURL == "" {
		apiURL = os.Getenv("CASELAW_API_URL")
	}
	if apiToken == "" {
		apiToken = os.Getenv("CASELAW_API_TOKEN")
	}
	if apiURL == "" {
		return nil, fmt.Errorf("no case-law API configured: pass --api-url or set CASELAW_API_URL")
	}

	return caselaw.NewClient(caselaw.Config{
		APIURL:   apiURL,
		APIToken: apiToken,
	}, &http.Client{}, log, nil), nil
}
