package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/autoscore/internal/core/domain"
	"github.com/custodia-labs/autoscore/internal/core/ports/driven"
	"github.com/custodia-labs/autoscore/internal/core/ports/driving"
	"github.com/custodia-labs/autoscore/internal/logger"
)

// Ensure Grader implements the interface.
var _ driving.GraderService = (*Grader)(nil)

const (
	assetsDir  = "Assets"
	scenesDir  = "Scenes"
	scriptsDir = "Scripts"
	gitignore  = ".gitignore"
)

// Student-facing messages.
const (
	msgCloneFailed = "I was unable to clone your repository: '%s'. "

	msgCheckURL = "Please double check the URL."

	msgPrivateHint = "Please double check the URL and make sure the repository isn't " +
		"private.\n\nIf it is set to private, you will see a lock icon " +
		"next to the repository name in GitHub Desktop. If you see the " +
		"lock icon, go to the repository on the GitHub website, there " +
		"you can make the repository public on the Settings tab."

	msgRepoIsPrivate = "GitHub reports that this repository is private. " + msgPrivateHint

	msgRepoMissing = "GitHub can't find a public repository at that address. " + msgPrivateHint

	msgRepoPublic = "The repository exists and is public, so this may be a temporary " +
		"problem on our side. Please resubmit, and ask for help if it happens again."

	msgAssetsMissing = "Your Assets folder appears to be missing. Did you create your Git " +
		"repository inside of your Unity project (do you see a Prototype-4 " +
		"folder inside of your Unity project)? If that is so, Git won't " +
		"see your changes (there will be nothing to commit & push). If " +
		"you've just started, the easiest thing to do is probably to " +
		"delete the repository locally and on GitHub and start over. It is " +
		"also possible to move the Git repository 'up a level' to fix the " +
		"problem. As long as you fix it promptly it's not a big deal " +
		"either way."

	msgGitignore = "Your .gitignore is either missing or smaller than expected for " +
		"Unity - please double check that you have a good .gitignore."

	msgTooFewFiles = "There don't seem to be enough files in your project - it's likely " +
		"that your Unity project and the Git repository aren't in the " +
		"same folder - please ask for help if you don't know how to fix " +
		"this problem."

	msgTooManyFiles = "There are way too many files in your Git repository. This usually " +
		"happens when either the .gitignore file is missing or the first " +
		"commit was done before adding it. You may also be having trouble " +
		"pushing to GitHub. If you have a good .gitignore this will be " +
		"messy to fix - it's probably easiest to start over."

	msgBranchMissing = "You don't seem to have a branch for this lesson in your " +
		"repository. I was looking for a '%s' branch. This may be " +
		"because you used a different branch name (or made a typo).\n\nBe " +
		"sure to create a branch for each lesson (in case you need to go " +
		"back) it is also worth developing a habit of consistency (and " +
		"tracking directions)."

	msgBranchVariant = "I was looking for a '%s' branch and found '%s' instead. " +
		"Following the naming in the directions makes your work easier to find."

	msgBranchCheckout = "I found your '%s' branch but couldn't check it out."

	msgNotImported = "Have you imported the project assets? The file count in your " +
		"repository (%d) seems too low."

	msgScriptsConvention = "By convention, scripts should be in a folder called 'Scripts' " +
		"in the project's 'Assets' folder. You seem to be using a folder " +
		"called %s. Following the convention " +
		"will make it easier for others to work with your projects."

	msgScriptsMissing = "I didn't find a 'Scripts' folder in your project. Have you " +
		"committed and pushed your changes in GitHub Desktop?\n\n" +
		"The 'Scripts' folder helps to keep your project organized and makes " +
		"it easier to find your scripts as your projects get bigger."

	msgScriptShort = "Your '%s' script seems too short. Did you save your " +
		"changes before committing?"

	msgScriptMisplaced = "I found your '%s' script in '%s' rather than in the '%s' folder. " +
		"Keeping scripts together makes them easier to find."

	msgScriptSuggestion = "I couldn't find your '%s' script in the '%s' folder, but found " +
		"possible matches: %s. Make sure you've named it correctly (and be sure " +
		"to change the class name if you rename the file)."

	msgScriptMissing = "I couldn't find your '%s' script in the 'Scripts' folder. " +
		"Make sure you've named it correctly (and be sure to change the " +
		"class name if you rename the file), or perhaps you created it " +
		"in another folder."

	msgSceneMissing = "The %s scene file is missing from the Scenes folder on the " +
		"%s branch. Did you forget to merge your %s branch into " +
		"the %s branch after importing your assets? Having a solid " +
		"starting point that you can go back to is a big help " +
		"if you make a mistake and need (or want) to back out of it."

	msgSampleScene = "Don't forget to remove the Sample Scene."

	msgResubmit = "After correcting any problems you may resubmit up until the assignment closes."
)

// Grader scores Unity assignment repositories against the rubric.
type Grader struct {
	fs       driven.FileSystem
	vcs      driven.VCS
	host     driven.RepoHost
	locator  driving.LocatorService
	settings domain.AppSettings
	pattern  *regexp.Regexp
	now      func() time.Time
}

// NewGrader creates a grader. host may be nil, in which case clone failures
// are explained from the URL alone.
func NewGrader(
	fs driven.FileSystem,
	vcs driven.VCS,
	host driven.RepoHost,
	locator driving.LocatorService,
	settings domain.AppSettings,
) (*Grader, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Grader{
		fs:       fs,
		vcs:      vcs,
		host:     host,
		locator:  locator,
		settings: settings,
		pattern:  regexp.MustCompile(settings.Grader.RepoPattern),
		now:      time.Now,
	}, nil
}

// LocalPath returns the directory a submission URL is cloned into.
func (g *Grader) LocalPath(url string) string {
	rel := strings.TrimPrefix(url, g.settings.Grader.BaseURL)
	rel = strings.TrimSuffix(strings.Trim(rel, "/"), ".git")
	if g.settings.Grader.TmpDir == "" {
		return filepath.FromSlash(rel)
	}
	return filepath.Join(g.settings.Grader.TmpDir, filepath.FromSlash(rel))
}

// Grade clones the repository at url and scores it.
func (g *Grader) Grade(ctx context.Context, url string) (*domain.Report, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("grade: empty repository url: %w", domain.ErrInvalidInput)
	}

	report := g.newReport(url)
	dir := g.LocalPath(url)

	logger.Section("Clone")
	if err := g.vcs.Clone(ctx, url, dir); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Debug("clone %s into %s failed: %v", url, dir, err)
		report.Add(domain.CheckResult{
			Name:    domain.CheckClone,
			Target:  url,
			Message: g.cloneFailure(ctx, url),
		})
		return g.finish(report, true), nil
	}
	report.Add(domain.CheckResult{Name: domain.CheckClone, Target: dir, Points: 1})

	return g.gradeCheckout(ctx, report, dir, url, true)
}

// GradeLocal scores an existing checkout at dir. The clone point is awarded
// and the working tree is left on its current branch.
func (g *Grader) GradeLocal(ctx context.Context, dir string) (*domain.Report, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" || !g.fs.IsDir(dir) {
		return nil, fmt.Errorf("grade %q: not a directory: %w", dir, domain.ErrInvalidInput)
	}

	report := g.newReport(dir)
	report.Add(domain.CheckResult{Name: domain.CheckClone, Target: dir, Points: 1})

	return g.gradeCheckout(ctx, report, dir, "", false)
}

func (g *Grader) newReport(repo string) *domain.Report {
	return &domain.Report{
		Repository: repo,
		MaxPoints:  g.settings.Grader.MaxPoints,
		CreatedAt:  g.now().UTC(),
	}
}

func (g *Grader) gradeCheckout(ctx context.Context, report *domain.Report, dir, url string, switchBranches bool) (*domain.Report, error) {
	cfg := g.settings.Grader

	logger.Section("Sanity")
	sanity := g.checkSanity(dir)
	report.Add(sanity)
	if sanity.Points == 0 {
		return g.finish(report, true), nil
	}

	logger.Section("Branch")
	report.Add(g.checkBranch(ctx, dir, url, switchBranches))

	logger.Section("Assets")
	report.Add(g.checkAssets(dir))

	logger.Section("Scripts")
	folder, folderCheck := g.checkScriptsFolder(dir)
	report.Add(folderCheck)

	resubmit := false
	for _, script := range cfg.Scripts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		check := g.checkScript(dir, folder, script)
		report.Add(check)
		if check.Points == 0 {
			resubmit = true
		}
	}

	if switchBranches {
		if err := g.vcs.Checkout(ctx, dir, cfg.DefaultBranch); err != nil {
			logger.Warn("checkout %s in %s: %v", cfg.DefaultBranch, dir, err)
		}
	}

	logger.Section("Scenes")
	report.Add(g.checkScene(dir))
	if sample, ok := g.checkSampleScene(dir); ok {
		report.Add(sample)
	}

	return g.finish(report, resubmit), nil
}

// finish appends the resubmit note when needed.
func (g *Grader) finish(report *domain.Report, resubmit bool) *domain.Report {
	cfg := g.settings.Grader
	if resubmit || float64(report.Score) <= float64(cfg.MaxPoints)*cfg.ResubmitThreshold {
		report.Resubmit = true
		report.Add(domain.CheckResult{Name: domain.CheckResubmit, Message: msgResubmit})
	}
	logger.Debug("grade %s: %d/%d resubmit=%t", report.Repository, report.Score, report.MaxPoints, report.Resubmit)
	return report
}

// cloneFailure explains a failed clone, asking the repository host when one
// is configured and falling back to the URL pattern otherwise.
func (g *Grader) cloneFailure(ctx context.Context, url string) string {
	msg := fmt.Sprintf(msgCloneFailed, url)

	if g.host != nil {
		if owner, repo, ok := g.splitRepoURL(url); ok {
			info, err := g.host.Lookup(ctx, owner, repo)
			switch {
			case err == nil && info.Private:
				return msg + msgRepoIsPrivate
			case err == nil:
				return msg + msgRepoPublic
			case errors.Is(err, domain.ErrNotFound):
				return msg + msgRepoMissing
			default:
				logger.Debug("lookup %s/%s: %v", owner, repo, err)
			}
		}
	}

	if g.pattern.MatchString(url) {
		return msg + msgPrivateHint
	}
	return msg + msgCheckURL
}

// splitRepoURL extracts owner and repository name from a hosted URL.
func (g *Grader) splitRepoURL(url string) (owner, repo string, ok bool) {
	if !strings.HasPrefix(url, g.settings.Grader.BaseURL) {
		return "", "", false
	}
	rel := strings.TrimPrefix(url, g.settings.Grader.BaseURL)
	rel = strings.TrimSuffix(strings.Trim(rel, "/"), ".git")
	owner, repo, ok = strings.Cut(rel, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", false
	}
	return owner, repo, true
}

func (g *Grader) checkSanity(dir string) domain.CheckResult {
	cfg := g.settings.Grader
	var msgs []string

	if !g.fs.IsDir(filepath.Join(dir, assetsDir)) {
		msgs = append(msgs, msgAssetsMissing)
	}

	ignore := filepath.Join(dir, gitignore)
	size, err := g.fs.Size(ignore)
	if !g.fs.IsFile(ignore) || err != nil || size <= cfg.GitignoreSize {
		logger.Debug("sanity: %s size=%d err=%v", ignore, size, err)
		msgs = append(msgs, msgGitignore)
	}

	items := g.fs.CountEntries(dir)
	logger.Debug("sanity: %d entries", items)
	switch {
	case items < cfg.MinFiles:
		msgs = append(msgs, msgTooFewFiles)
	case items > cfg.MaxFiles:
		msgs = append(msgs, msgTooManyFiles)
	}

	if len(msgs) > 0 {
		return domain.CheckResult{Name: domain.CheckSanity, Target: dir, Message: strings.Join(msgs, "\n\n")}
	}
	return domain.CheckResult{Name: domain.CheckSanity, Target: dir, Points: 1}
}

func (g *Grader) checkBranch(ctx context.Context, dir, url string, switchBranches bool) domain.CheckResult {
	want := g.settings.Grader.Branch
	found := FindBranch(g.branches(ctx, dir, url), want)
	if found == "" {
		return domain.CheckResult{
			Name:    domain.CheckBranch,
			Target:  want,
			Message: fmt.Sprintf(msgBranchMissing, want),
		}
	}

	if switchBranches {
		if err := g.vcs.Checkout(ctx, dir, found); err != nil {
			logger.Debug("checkout %s: %v", found, err)
			return domain.CheckResult{
				Name:    domain.CheckBranch,
				Target:  found,
				Message: fmt.Sprintf(msgBranchCheckout, found),
			}
		}
	}

	check := domain.CheckResult{Name: domain.CheckBranch, Target: found, Points: 1}
	if found != want {
		check.Message = fmt.Sprintf(msgBranchVariant, want, found)
	}
	return check
}

// branches lists the checkout's branches, asking the repository host when
// the local listing fails.
func (g *Grader) branches(ctx context.Context, dir, url string) []string {
	names, err := g.vcs.Branches(ctx, dir)
	if err == nil {
		return names
	}
	logger.Debug("list branches in %s: %v", dir, err)

	if g.host == nil || url == "" {
		return nil
	}
	owner, repo, ok := g.splitRepoURL(url)
	if !ok {
		return nil
	}
	names, err = g.host.ListBranches(ctx, owner, repo)
	if err != nil {
		logger.Debug("list branches of %s/%s: %v", owner, repo, err)
		return nil
	}
	return names
}

func (g *Grader) checkAssets(dir string) domain.CheckResult {
	items := g.fs.CountEntries(dir)
	if items > g.settings.Grader.ImportedFiles {
		return domain.CheckResult{Name: domain.CheckAssets, Target: dir, Points: 1}
	}
	return domain.CheckResult{
		Name:    domain.CheckAssets,
		Target:  dir,
		Message: fmt.Sprintf(msgNotImported, items),
	}
}

// checkScriptsFolder returns the folder scripts should be looked up in along
// with the folder check. Without a plausible folder, Assets itself is used.
func (g *Grader) checkScriptsFolder(dir string) (string, domain.CheckResult) {
	assets := filepath.Join(dir, assetsDir)
	exact := filepath.Join(assets, scriptsDir)

	folder := FindFolder(g.fs, assets, scriptsDir)
	switch {
	case folder == exact:
		return folder, domain.CheckResult{Name: domain.CheckScriptsFolder, Target: folder, Points: 2}
	case folder != "":
		return folder, domain.CheckResult{
			Name:    domain.CheckScriptsFolder,
			Target:  folder,
			Points:  1,
			Message: fmt.Sprintf(msgScriptsConvention, filepath.Base(folder)),
		}
	default:
		return assets, domain.CheckResult{
			Name:    domain.CheckScriptsFolder,
			Target:  exact,
			Message: msgScriptsMissing,
		}
	}
}

func (g *Grader) checkScript(repo, folder, name string) domain.CheckResult {
	expected := filepath.Join(folder, name)
	check := domain.CheckResult{Name: domain.CheckScript, Target: name}
	opts := g.settings.Locator.Options()

	result, err := g.locator.Locate(expected, opts)
	if err != nil {
		logger.Warn("locate %s: %v", expected, err)
		check.Message = fmt.Sprintf(msgScriptMissing, name)
		return check
	}

	match := g.locator.Classify(result, expected, opts.Threshold)
	logger.Debug("script %s: %s", name, match.Kind)

	switch match.Kind {
	case domain.MatchExact, domain.MatchMisplaced:
		path := match.Found.Path()
		size, err := g.fs.Size(path)
		if !g.fs.IsFile(path) || err != nil {
			check.Message = fmt.Sprintf(msgScriptMissing, name)
			return check
		}
		check.Target = path
		if size <= g.settings.Grader.EmptyScriptSize {
			logger.Debug("script %s: size %d too small", path, size)
			check.Message = fmt.Sprintf(msgScriptShort, name)
			return check
		}
		check.Points = 1
		if match.Kind == domain.MatchMisplaced {
			check.Message = fmt.Sprintf(msgScriptMisplaced, name, relTo(repo, match.Found.Directory), filepath.Base(folder))
		}
	case domain.MatchSuggestion:
		check.Message = fmt.Sprintf(msgScriptSuggestion, name, filepath.Base(folder), describeCandidates(repo, match.Suggestions))
	default:
		check.Message = fmt.Sprintf(msgScriptMissing, name)
	}
	return check
}

func (g *Grader) checkScene(dir string) domain.CheckResult {
	cfg := g.settings.Grader
	path := filepath.Join(dir, assetsDir, scenesDir, cfg.Scene)
	if g.fs.IsFile(path) {
		return domain.CheckResult{Name: domain.CheckScene, Target: path, Points: 1}
	}
	scene := strings.TrimSuffix(cfg.Scene, filepath.Ext(cfg.Scene))
	return domain.CheckResult{
		Name:    domain.CheckScene,
		Target:  path,
		Message: fmt.Sprintf(msgSceneMissing, scene, cfg.DefaultBranch, cfg.Branch, cfg.DefaultBranch),
	}
}

func (g *Grader) checkSampleScene(dir string) (domain.CheckResult, bool) {
	path := filepath.Join(dir, assetsDir, scenesDir, g.settings.Grader.SampleScene)
	if !g.fs.IsFile(path) {
		return domain.CheckResult{}, false
	}
	return domain.CheckResult{Name: domain.CheckSampleScene, Target: path, Message: msgSampleScene}, true
}

// describeCandidates renders candidates as 'Name' (in dir) with directories
// relative to the repository root.
func describeCandidates(repo string, candidates []domain.Candidate) string {
	parts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		parts = append(parts, fmt.Sprintf("'%s' (in %s)", c.Name, relTo(repo, c.Directory)))
	}
	return strings.Join(parts, ", ")
}

func relTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
