package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/amaumene/gostremiojackett/internal/errors"
	"github.com/amaumene/gostremiojackett/internal/models"
)

// runSearchCommand runs one discovery from the command line and prints the
// streams as JSON, without starting the HTTP server.
func runSearchCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:     "search <movie|series> <tt-id[:season:episode]>",
		Short:   "Discover streams for one title and print them as JSON",
		Example: "  gostremiojackett search series tt0903747:1:2",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseSearchArgs(args[0], args[1])
			if err != nil {
				return err
			}

			a, err := newApp(*configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			streams := a.services.Coordinator.Discover(ctx, req)

			out, err := json.MarshalIndent(models.StreamResponse{Streams: streams}, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}

func parseSearchArgs(mediaType, id string) (models.StreamRequest, error) {
	req := models.StreamRequest{MediaType: models.MediaType(mediaType)}
	if !req.MediaType.Valid() {
		return req, fmt.Errorf("unsupported type %q", mediaType)
	}

	parts := strings.Split(id, ":")
	if !strings.HasPrefix(parts[0], "tt") || len(parts[0]) < 3 {
		return req, apperrors.NewInvalidIDError(id)
	}
	if _, err := strconv.Atoi(parts[0][2:]); err != nil {
		return req, apperrors.NewInvalidIDError(id)
	}
	req.TitleID = parts[0]

	switch len(parts) {
	case 1:
	case 3:
		season, err := strconv.Atoi(parts[1])
		if err != nil || season < 0 {
			return req, fmt.Errorf("invalid season in %q", id)
		}
		episode, err := strconv.Atoi(parts[2])
		if err != nil || episode < 0 {
			return req, fmt.Errorf("invalid episode in %q", id)
		}
		req.Season, req.Episode, req.HasEpisode = season, episode, true
	default:
		return req, apperrors.NewInvalidIDError(id)
	}
	return req, nil
}
