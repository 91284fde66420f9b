package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"printd/pkg/types"
)

var clientTimeout = 2 * time.Minute

func newStatusCommand() *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the queue length and whether a job is printing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := fetchStatus(cmd.Context(), url)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "queued: %d\nprinting: %t\n", st.QueueLength, st.IsPrinting)
			if st.Paused {
				fmt.Fprintln(cmd.OutOrStdout(), "paused: true")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", envOr("PRINTD_URL", defaultURL), "printd base URL")
	return cmd
}

func newSubmitCommand() *cobra.Command {
	var (
		url  string
		wait bool
	)
	cmd := &cobra.Command{
		Use:   "submit <image>",
		Short: "Upload an image to be printed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := submitFile(cmd.Context(), url, args[0], wait)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (job %s)\n", resp.Message, resp.JobID)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", envOr("PRINTD_URL", defaultURL), "printd base URL")
	cmd.Flags().BoolVar(&wait, "wait", false, "block until the job has printed")
	return cmd
}

func fetchStatus(ctx context.Context, base string) (types.StatusResponse, error) {
	var st types.StatusResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(base, "/")+"/api/queue", nil)
	if err != nil {
		return st, err
	}
	err = do(req, &st)
	return st, err
}

func submitFile(ctx context.Context, base, path string, wait bool) (types.PrintResponse, error) {
	var out types.PrintResponse
	f, err := os.Open(path)
	if err != nil {
		return out, err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", filepath.Base(path))
	if err != nil {
		return out, err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return out, fmt.Errorf("read %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return out, err
	}

	target := strings.TrimRight(base, "/") + "/api/print"
	if wait {
		target += "?wait=1"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, &body)
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	err = do(req, &out)
	return out, err
}

// do sends req and decodes a 2xx JSON body into v. Error bodies are
// surfaced using the server's {error, code} shape.
func do(req *http.Request, v any) error {
	client := &http.Client{Timeout: clientTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		var e types.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Error != "" {
			return fmt.Errorf("%s: %s (%d)", req.URL.Path, e.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s: unexpected status %s", req.URL.Path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
