package result

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"campus-results/result-queue-server/pkg/config"
	"campus-results/result-queue-server/pkg/infra"

	"github.com/imroc/req/v3"
	"go.uber.org/zap"
)

var resultIdPattern = regexp.MustCompile(`resultid=([^&"'\s]+)`)

var monthOrder = map[string]int{
	"January": 1, "February": 2, "March": 3, "April": 4,
	"May": 5, "June": 6, "July": 7, "August": 8,
	"September": 9, "October": 10, "November": 11, "December": 12,
}

// Link is one published result sheet discovered on the portal listing.
type Link struct {
	ResultId    string `json:"resultId"`
	Month       string `json:"month"`
	ExamYear    string `json:"examYear"`
	DisplayText string `json:"displayText"`
}

// LinkService discovers which result sheets the upstream portal has
// published for a given selection. This only reads the listing page,
// the result pages themselves are fetched by the downstream scraper.
type LinkService struct {
	httpClient *req.Client
	config     *config.Config
	logger     *zap.SugaredLogger
}

func ProvideLinkService(httpClient *req.Client, config *config.Config, loggerFactory *infra.LoggerFactory) *LinkService {
	return &LinkService{
		httpClient: httpClient,
		config:     config,
		logger:     loggerFactory.Create("LinkService").Sugar(),
	}
}

func (s *LinkService) Available(ctx context.Context, sel *Selection) ([]Link, error) {
	listingUrl := s.config.UpstreamHost + "/resultug"
	if sel.ProgramType == ProgramPG {
		listingUrl = s.config.UpstreamHost + "/resultpg"
	}

	resp, err := s.httpClient.R().SetContext(ctx).Get(listingUrl)
	if err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch listing: upstream status %v", resp.Status)
	}

	links := extractLinks(resp.String(), sel)
	s.logger.Infof("found %v links for %v %v %v-%v-%v-%v",
		len(links), sel.ProgramType, sel.ProgramName, sel.Year, sel.Semester, sel.Regulation, sel.ExamType)
	return links, nil
}

// extractLinks pulls every resultid= href out of the listing html and
// keeps the ones matching the selection, newest first, one per
// month/year. Result ids follow the portal's fixed layout:
// <program>-<year>-<sem>-<regulation>-<type>-<month>-<examYear>.
func extractLinks(page string, sel *Selection) []Link {
	var links []Link
	seen := map[string]bool{}

	for _, match := range resultIdPattern.FindAllStringSubmatch(page, -1) {
		resultId, err := url.QueryUnescape(match[1])
		if err != nil {
			continue
		}

		parts := strings.Split(resultId, "-")
		if len(parts) < 7 {
			continue
		}
		prog, year, sem, reg, examType, month, examYear := parts[0], parts[1], parts[2], parts[3], parts[4], parts[5], parts[6]

		if sel.ProgramType == ProgramPG && sel.ProgramName != "" && prog != sel.ProgramName {
			continue
		}
		if year != sel.Year || sem != sel.Semester || reg != sel.Regulation || examType != sel.ExamType {
			continue
		}

		key := month + "-" + examYear
		if seen[key] {
			continue
		}
		seen[key] = true

		links = append(links, Link{
			ResultId:    resultId,
			Month:       month,
			ExamYear:    examYear,
			DisplayText: month + " " + examYear,
		})
	}

	sort.Slice(links, func(i, j int) bool {
		if links[i].ExamYear != links[j].ExamYear {
			return links[i].ExamYear > links[j].ExamYear
		}
		return monthOrder[links[i].Month] > monthOrder[links[j].Month]
	})
	return links
}
