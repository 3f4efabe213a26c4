package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/autoscore/internal/core/domain"
	"github.com/custodia-labs/autoscore/internal/core/ports/driven"
)

const submissionURL = "https://github.com/student/Prototype-4"

var submissionDir = filepath.Join("/work", "student", "Prototype-4")

// goodRepo lays out a submission that earns every point.
func goodRepo(fs *fakeFS, dir string) {
	fs.addFile(filepath.Join(dir, ".gitignore"), 1200)
	fs.addFile(filepath.Join(dir, "Assets", "Scripts", "RotateCamera.cs"), 800)
	fs.addFile(filepath.Join(dir, "Assets", "Scripts", "PlayerController.cs"), 900)
	fs.addFile(filepath.Join(dir, "Assets", "Scenes", "Prototype 4.unity"), 4000)
	fs.count = 120
}

type graderFixture struct {
	fs     *fakeFS
	vcs    *fakeVCS
	grader *Grader
}

func newGraderFixture(t *testing.T, host driven.RepoHost, layout func(fs *fakeFS, dir string)) *graderFixture {
	t.Helper()

	fs := newFakeFS()
	vcs := &fakeVCS{
		branches: []string{"master", "lesson-1"},
		onClone:  func(dir string) { layout(fs, dir) },
	}

	settings := domain.DefaultAppSettings()
	settings.Grader.TmpDir = "/work"

	g, err := NewGrader(fs, vcs, host, NewLocator(fs), settings)
	require.NoError(t, err)
	g.now = func() time.Time { return time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC) }

	return &graderFixture{fs: fs, vcs: vcs, grader: g}
}

func checkNames(r *domain.Report) []string {
	names := make([]string, 0, len(r.Checks))
	for _, c := range r.Checks {
		names = append(names, c.Name)
	}
	return names
}

func findCheck(t *testing.T, r *domain.Report, name string) domain.CheckResult {
	t.Helper()
	for _, c := range r.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %q not in report", name)
	return domain.CheckResult{}
}

func TestNewGrader_RejectsInvalidSettings(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Grader.Scripts = nil

	_, err := NewGrader(newFakeFS(), &fakeVCS{}, nil, NewLocator(newFakeFS()), settings)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestGrader_LocalPath(t *testing.T) {
	f := newGraderFixture(t, nil, goodRepo)

	assert.Equal(t, submissionDir, f.grader.LocalPath(submissionURL))
	assert.Equal(t, submissionDir, f.grader.LocalPath(submissionURL+".git"))
	assert.Equal(t, submissionDir, f.grader.LocalPath(submissionURL+"/"))
}

func TestGrader_FullMarks(t *testing.T) {
	f := newGraderFixture(t, nil, goodRepo)

	report, err := f.grader.Grade(context.Background(), submissionURL)
	require.NoError(t, err)

	assert.Equal(t, 9, report.Score)
	assert.Equal(t, 9, report.MaxPoints)
	assert.False(t, report.Resubmit)
	assert.Empty(t, report.Comments())
	assert.Equal(t, submissionURL, report.Repository)
	assert.Equal(t, time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC), report.CreatedAt)
	assert.Equal(t, []string{
		domain.CheckClone,
		domain.CheckSanity,
		domain.CheckBranch,
		domain.CheckAssets,
		domain.CheckScriptsFolder,
		domain.CheckScript,
		domain.CheckScript,
		domain.CheckScene,
	}, checkNames(report))
	assert.Equal(t, []string{submissionURL + " -> " + submissionDir}, f.vcs.clones)
	assert.Equal(t, []string{"lesson-1", "master"}, f.vcs.checkouts)
}

func TestGrader_EmptyURL(t *testing.T) {
	f := newGraderFixture(t, nil, goodRepo)

	_, err := f.grader.Grade(context.Background(), "  ")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Empty(t, f.vcs.clones)
}

func TestGrader_CloneFailure(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		host     driven.RepoHost
		contains string
		excludes string
	}{
		{
			name:     "plausible url gets private hint",
			url:      submissionURL,
			contains: "make sure the repository isn't private",
		},
		{
			name:     "implausible url",
			url:      "https://github.com/student/homework",
			contains: "Please double check the URL.",
			excludes: "private",
		},
		{
			name:     "host reports private",
			url:      "https://github.com/student/homework",
			host:     &fakeHost{info: &driven.RepoInfo{FullName: "student/homework", Private: true}},
			contains: "GitHub reports that this repository is private",
		},
		{
			name:     "host cannot see it",
			url:      "https://github.com/student/homework",
			host:     &fakeHost{err: domain.ErrNotFound},
			contains: "can't find a public repository",
		},
		{
			name:     "host sees a public repo",
			url:      submissionURL,
			host:     &fakeHost{info: &driven.RepoInfo{FullName: "student/Prototype-4"}},
			contains: "temporary problem",
			excludes: "lock icon",
		},
		{
			name:     "host unavailable falls back to pattern",
			url:      submissionURL,
			host:     &fakeHost{err: domain.ErrHostUnavailable},
			contains: "lock icon",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGraderFixture(t, tt.host, goodRepo)
			f.vcs.cloneErr = domain.ErrCloneFailed

			report, err := f.grader.Grade(context.Background(), tt.url)
			require.NoError(t, err)

			assert.Equal(t, 0, report.Score)
			assert.True(t, report.Resubmit)
			assert.Equal(t, []string{domain.CheckClone, domain.CheckResubmit}, checkNames(report))

			clone := findCheck(t, report, domain.CheckClone)
			assert.Contains(t, clone.Message, "I was unable to clone your repository: '"+tt.url+"'.")
			assert.Contains(t, clone.Message, tt.contains)
			if tt.excludes != "" {
				assert.NotContains(t, clone.Message, tt.excludes)
			}
			assert.Empty(t, f.vcs.checkouts)
		})
	}
}

func TestGrader_CanceledClone(t *testing.T) {
	f := newGraderFixture(t, nil, goodRepo)
	f.vcs.cloneErr = domain.ErrCloneFailed

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.grader.Grade(ctx, submissionURL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGrader_SanityFailureStops(t *testing.T) {
	f := newGraderFixture(t, nil, func(fs *fakeFS, dir string) {
		fs.addFile(filepath.Join(dir, "Prototype 4", "Assets", "Scripts", "RotateCamera.cs"), 800)
		fs.count = 5
	})

	report, err := f.grader.Grade(context.Background(), submissionURL)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Score)
	assert.True(t, report.Resubmit)
	assert.Equal(t, []string{domain.CheckClone, domain.CheckSanity, domain.CheckResubmit}, checkNames(report))

	sanity := findCheck(t, report, domain.CheckSanity)
	assert.Equal(t, 0, sanity.Points)
	assert.Contains(t, sanity.Message, "Your Assets folder appears to be missing")
	assert.Contains(t, sanity.Message, "Your .gitignore is either missing")
	assert.Contains(t, sanity.Message, "enough files")
	assert.Empty(t, f.vcs.checkouts)
}

func TestGrader_SanityFileWindow(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		gitSize  int64
		contains string
	}{
		{name: "too many files", count: 5000, gitSize: 1200, contains: "way too many files"},
		{name: "small gitignore", count: 120, gitSize: 500, contains: ".gitignore"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGraderFixture(t, nil, func(fs *fakeFS, dir string) {
				goodRepo(fs, dir)
				fs.files[filepath.Join(dir, ".gitignore")] = tt.gitSize
				fs.count = tt.count
			})

			report, err := f.grader.Grade(context.Background(), submissionURL)
			require.NoError(t, err)

			sanity := findCheck(t, report, domain.CheckSanity)
			assert.Equal(t, 0, sanity.Points)
			assert.Contains(t, sanity.Message, tt.contains)
			assert.True(t, report.Resubmit)
		})
	}
}

func TestGrader_Branch(t *testing.T) {
	t.Run("variant name is accepted with a note", func(t *testing.T) {
		f := newGraderFixture(t, nil, goodRepo)
		f.vcs.branches = []string{"master", "lesson1"}

		report, err := f.grader.Grade(context.Background(), submissionURL)
		require.NoError(t, err)

		branch := findCheck(t, report, domain.CheckBranch)
		assert.Equal(t, 1, branch.Points)
		assert.Equal(t, "lesson1", branch.Target)
		assert.Contains(t, branch.Message, "found 'lesson1' instead")
		assert.Equal(t, []string{"lesson1", "master"}, f.vcs.checkouts)
		assert.Equal(t, 9, report.Score)
	})

	t.Run("missing branch", func(t *testing.T) {
		f := newGraderFixture(t, nil, goodRepo)
		f.vcs.branches = []string{"master"}

		report, err := f.grader.Grade(context.Background(), submissionURL)
		require.NoError(t, err)

		branch := findCheck(t, report, domain.CheckBranch)
		assert.Equal(t, 0, branch.Points)
		assert.Contains(t, branch.Message, "I was looking for a 'lesson-1' branch")
		assert.Equal(t, 8, report.Score)
		assert.False(t, report.Resubmit)
		assert.Equal(t, []string{"master"}, f.vcs.checkouts)
	})

	t.Run("checkout failure", func(t *testing.T) {
		f := newGraderFixture(t, nil, goodRepo)
		f.vcs.checkoutErr = map[string]error{"lesson-1": domain.ErrCheckoutFailed}

		report, err := f.grader.Grade(context.Background(), submissionURL)
		require.NoError(t, err)

		branch := findCheck(t, report, domain.CheckBranch)
		assert.Equal(t, 0, branch.Points)
		assert.Contains(t, branch.Message, "couldn't check it out")
	})

	t.Run("host branches when local listing fails", func(t *testing.T) {
		f := newGraderFixture(t, &fakeHost{branches: []string{"main", "lesson_1"}}, goodRepo)
		f.vcs.branchesErr = errors.New("git: not a repository")

		report, err := f.grader.Grade(context.Background(), submissionURL)
		require.NoError(t, err)

		branch := findCheck(t, report, domain.CheckBranch)
		assert.Equal(t, 1, branch.Points)
		assert.Equal(t, "lesson_1", branch.Target)
	})
}

func TestGrader_AssetsNotImported(t *testing.T) {
	f := newGraderFixture(t, nil, func(fs *fakeFS, dir string) {
		goodRepo(fs, dir)
		fs.count = 30
	})

	report, err := f.grader.Grade(context.Background(), submissionURL)
	require.NoError(t, err)

	assets := findCheck(t, report, domain.CheckAssets)
	assert.Equal(t, 0, assets.Points)
	assert.Contains(t, assets.Message, "repository (30) seems too low")
	assert.Equal(t, 8, report.Score)
}

func TestGrader_ScriptsFolderVariant(t *testing.T) {
	f := newGraderFixture(t, nil, func(fs *fakeFS, dir string) {
		fs.addFile(filepath.Join(dir, ".gitignore"), 1200)
		fs.addFile(filepath.Join(dir, "Assets", "scripts", "RotateCamera.cs"), 800)
		fs.addFile(filepath.Join(dir, "Assets", "scripts", "PlayerController.cs"), 900)
		fs.addFile(filepath.Join(dir, "Assets", "Scenes", "Prototype 4.unity"), 4000)
		fs.count = 120
	})

	report, err := f.grader.Grade(context.Background(), submissionURL)
	require.NoError(t, err)

	folder := findCheck(t, report, domain.CheckScriptsFolder)
	assert.Equal(t, 1, folder.Points)
	assert.Contains(t, folder.Message, "called scripts")
	assert.Equal(t, 8, report.Score)
	assert.False(t, report.Resubmit)
}

func TestGrader_ScriptsFolderMissing(t *testing.T) {
	f := newGraderFixture(t, nil, func(fs *fakeFS, dir string) {
		fs.addFile(filepath.Join(dir, ".gitignore"), 1200)
		fs.addFile(filepath.Join(dir, "Assets", "RotateCamera.cs"), 800)
		fs.addFile(filepath.Join(dir, "Assets", "PlayerController.cs"), 900)
		fs.addFile(filepath.Join(dir, "Assets", "Scenes", "Prototype 4.unity"), 4000)
		fs.count = 120
	})

	report, err := f.grader.Grade(context.Background(), submissionURL)
	require.NoError(t, err)

	folder := findCheck(t, report, domain.CheckScriptsFolder)
	assert.Equal(t, 0, folder.Points)
	assert.Contains(t, folder.Message, "I didn't find a 'Scripts' folder")

	// Scripts fall back to Assets and are found there exactly.
	for _, c := range report.Checks {
		if c.Name == domain.CheckScript {
			assert.Equal(t, 1, c.Points, c.Target)
			assert.Empty(t, c.Message)
		}
	}
	assert.Equal(t, 7, report.Score)
}

func TestGrader_Scripts(t *testing.T) {
	tests := []struct {
		name     string
		layout   func(fs *fakeFS, dir string)
		points   int
		resubmit bool
		contains string
	}{
		{
			name: "misnamed script suggests candidates",
			layout: func(fs *fakeFS, dir string) {
				goodRepo(fs, dir)
				scripts := filepath.Join(dir, "Assets", "Scripts")
				delete(fs.files, filepath.Join(scripts, "PlayerController.cs"))
				fs.dirs[scripts] = nil
				fs.addFile(filepath.Join(scripts, "RotateCamera.cs"), 800)
				fs.addFile(filepath.Join(scripts, "PlayerControler.cs"), 900)
			},
			points:   0,
			resubmit: true,
			contains: "possible matches: 'PlayerControler.cs' (in Assets/Scripts)",
		},
		{
			name: "empty script",
			layout: func(fs *fakeFS, dir string) {
				goodRepo(fs, dir)
				fs.files[filepath.Join(dir, "Assets", "Scripts", "PlayerController.cs")] = 323
			},
			points:   0,
			resubmit: true,
			contains: "'PlayerController.cs' script seems too short",
		},
		{
			name: "script in parent folder",
			layout: func(fs *fakeFS, dir string) {
				goodRepo(fs, dir)
				scripts := filepath.Join(dir, "Assets", "Scripts")
				delete(fs.files, filepath.Join(scripts, "PlayerController.cs"))
				fs.dirs[scripts] = nil
				fs.addFile(filepath.Join(scripts, "RotateCamera.cs"), 800)
				fs.addFile(filepath.Join(dir, "Assets", "PlayerController.cs"), 900)
			},
			points:   1,
			resubmit: false,
			contains: "in 'Assets' rather than in the 'Scripts' folder",
		},
		{
			name: "script nowhere",
			layout: func(fs *fakeFS, dir string) {
				goodRepo(fs, dir)
				scripts := filepath.Join(dir, "Assets", "Scripts")
				delete(fs.files, filepath.Join(scripts, "PlayerController.cs"))
				fs.dirs[scripts] = nil
				fs.addFile(filepath.Join(scripts, "RotateCamera.cs"), 800)
			},
			points:   0,
			resubmit: true,
			contains: "I couldn't find your 'PlayerController.cs' script in the 'Scripts' folder",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGraderFixture(t, nil, tt.layout)

			report, err := f.grader.Grade(context.Background(), submissionURL)
			require.NoError(t, err)

			var player domain.CheckResult
			for _, c := range report.Checks {
				if c.Name == domain.CheckScript && filepath.Base(c.Target) == "PlayerController.cs" {
					player = c
				}
			}
			assert.Equal(t, tt.points, player.Points)
			assert.Contains(t, player.Message, tt.contains)
			assert.Equal(t, tt.resubmit, report.Resubmit)
			if tt.resubmit {
				assert.Contains(t, report.Comments(), "you may resubmit")
			}
		})
	}
}

func TestGrader_Scenes(t *testing.T) {
	f := newGraderFixture(t, nil, func(fs *fakeFS, dir string) {
		goodRepo(fs, dir)
		scenes := filepath.Join(dir, "Assets", "Scenes")
		delete(fs.files, filepath.Join(scenes, "Prototype 4.unity"))
		fs.dirs[scenes] = nil
		fs.addFile(filepath.Join(scenes, "Sample Scene.unity"), 4000)
	})

	report, err := f.grader.Grade(context.Background(), submissionURL)
	require.NoError(t, err)

	scene := findCheck(t, report, domain.CheckScene)
	assert.Equal(t, 0, scene.Points)
	assert.Contains(t, scene.Message, "The Prototype 4 scene file is missing from the Scenes folder on the master branch")
	assert.Contains(t, scene.Message, "merge your lesson-1 branch")

	sample := findCheck(t, report, domain.CheckSampleScene)
	assert.Equal(t, "Don't forget to remove the Sample Scene.", sample.Message)
	assert.Equal(t, 8, report.Score)
}

func TestGrader_LowScoreTriggersResubmit(t *testing.T) {
	f := newGraderFixture(t, nil, func(fs *fakeFS, dir string) {
		goodRepo(fs, dir)
		scenes := filepath.Join(dir, "Assets", "Scenes")
		delete(fs.files, filepath.Join(scenes, "Prototype 4.unity"))
		fs.count = 40
	})
	f.vcs.branches = []string{"master"}

	report, err := f.grader.Grade(context.Background(), submissionURL)
	require.NoError(t, err)

	// 9 - branch - assets - scene = 6, at or below 9 * 0.7.
	assert.Equal(t, 6, report.Score)
	assert.True(t, report.Resubmit)

	feedback := report.Feedback()
	assert.Equal(t, 6, feedback.Score)
	assert.Contains(t, feedback.Comments, "After correcting any problems you may resubmit up until the assignment closes.\n\n")
}

func TestGrader_GradeLocal(t *testing.T) {
	f := newGraderFixture(t, nil, goodRepo)
	goodRepo(f.fs, submissionDir)
	f.vcs.branches = []string{"master", "lesson_1"}

	report, err := f.grader.GradeLocal(context.Background(), submissionDir)
	require.NoError(t, err)

	assert.Equal(t, 9, report.Score)
	assert.Equal(t, submissionDir, report.Repository)
	assert.Empty(t, f.vcs.clones)
	assert.Empty(t, f.vcs.checkouts)
	assert.Equal(t, "lesson_1", findCheck(t, report, domain.CheckBranch).Target)
}

func TestGrader_GradeLocalMissingDir(t *testing.T) {
	f := newGraderFixture(t, nil, goodRepo)

	_, err := f.grader.GradeLocal(context.Background(), "/nowhere")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
