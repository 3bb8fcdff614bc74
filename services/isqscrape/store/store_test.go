package store

import (
	"context"
	"isqexplorer-backend/lib/testutil"
	"isqexplorer-backend/services/isqscrape"
	"isqexplorer-backend/services/isqscrape/db"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Store, context.Context) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "isqscrape/store",
		DbSchema: db.Schema,
	})
	t.Cleanup(cleanup)

	return New(res.DB), testutil.Context(t)
}

func TestDepartments(t *testing.T) {
	store, ctx := setup(t)

	{
		store.Departments.AddRange([]isqscrape.Department{
			{Id: 54820, Name: "Computing"},
			{Id: 31290, Name: "Biology"},
		})
		all, err := store.Departments.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
	}
	{
		err := store.Departments.Persist(ctx)
		require.NoError(t, err)

		all, err := store.Departments.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.Equal(t, "Biology", all[0].Name)
	}
	{
		// re-adding rows a previous run persisted must not duplicate
		store.Departments.AddRange([]isqscrape.Department{
			{Id: 54820, Name: "Computing"},
		})
		all, err := store.Departments.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)

		err = store.Departments.Persist(ctx)
		require.NoError(t, err)
		all, err = store.Departments.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
	}
}

func TestTerms(t *testing.T) {
	store, ctx := setup(t)

	store.Terms.AddRange([]isqscrape.Term{
		{Id: 201980, Name: "Fall 2019"},
		{Id: 202010, Name: "Spring 2020"},
	})

	{
		term, err := store.Terms.LookupName(ctx, "Fall 2019")
		require.NoError(t, err)
		require.True(t, term.IsPresent())
		require.Equal(t, int64(201980), term.Get().Id)
	}
	{
		missing, err := store.Terms.LookupName(ctx, "Winter 1999")
		require.NoError(t, err)
		require.False(t, missing.IsPresent())
	}
	{
		require.NoError(t, store.Terms.Persist(ctx))

		term, err := store.Terms.LookupName(ctx, "Spring 2020")
		require.NoError(t, err)
		require.True(t, term.IsPresent())
		require.Equal(t, int64(202010), term.Get().Id)

		all, err := store.Terms.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
	}
}

func TestCourses(t *testing.T) {
	store, ctx := setup(t)

	{
		store.Courses.Add(isqscrape.Course{Code: "COP 3503", Name: "Computer Science II", DepartmentId: 54820})
		store.Courses.Add(isqscrape.Course{Code: "COP 3503", Name: "a duplicate that loses", DepartmentId: 1})
		store.Courses.Add(isqscrape.Course{Code: "COT 3100", Name: "Computational Structures", DepartmentId: 54820})

		course, err := store.Courses.LookupCode(ctx, "COP 3503")
		require.NoError(t, err)
		require.True(t, course.IsPresent())
		require.Equal(t, "Computer Science II", course.Get().Name)

		codes, err := store.Courses.Codes(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"COP 3503", "COT 3100"}, codes)
	}
	{
		require.NoError(t, store.Courses.Persist(ctx))

		course, err := store.Courses.LookupCode(ctx, "COP 3503")
		require.NoError(t, err)
		require.True(t, course.IsPresent())
		require.Equal(t, "Computer Science II", course.Get().Name)
		require.Equal(t, int64(54820), course.Get().DepartmentId)

		missing, err := store.Courses.LookupCode(ctx, "XXX 0000")
		require.NoError(t, err)
		require.False(t, missing.IsPresent())
	}
	{
		// pending and persisted codes merge without duplicates
		store.Courses.Add(isqscrape.Course{Code: "COP 3503", Name: "already persisted"})
		store.Courses.Add(isqscrape.Course{Code: "CEN 4010", Name: "Software Engineering"})

		codes, err := store.Courses.Codes(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"CEN 4010", "COP 3503", "COT 3100"}, codes)
	}
}

func TestProfessors(t *testing.T) {
	store, ctx := setup(t)

	{
		exists, err := store.Professors.Exists(ctx, "N00123456")
		require.NoError(t, err)
		require.False(t, exists)
	}
	{
		store.Professors.Add(isqscrape.Professor{
			NNumber:      "N00123456",
			FirstName:    "Jane",
			LastName:     "Smith",
			DepartmentId: 54820,
		})

		exists, err := store.Professors.Exists(ctx, "N00123456")
		require.NoError(t, err)
		require.True(t, exists)
	}
	{
		require.NoError(t, store.Professors.Persist(ctx))

		exists, err := store.Professors.Exists(ctx, "N00123456")
		require.NoError(t, err)
		require.True(t, exists)

		all, err := store.Professors.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		require.Equal(t, "Smith", all[0].LastName)
	}
	{
		store.Professors.Add(isqscrape.Professor{NNumber: "N00000001", FirstName: "John", LastName: "Doe"})

		all, err := store.Professors.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
	}
}

func TestEntries(t *testing.T) {
	store, ctx := setup(t)

	entry := isqscrape.Entry{
		TermId:           201980,
		Crn:              "12345",
		CourseCode:       "COP 3503",
		ProfessorNNumber: "N00123456",
		NEnrolled:        50,
		NResponded:       40,
		PctA:             20,
		MeanGpa:          3.2,
	}

	{
		store.Entries.Add(entry)

		duplicate := entry
		duplicate.NEnrolled = 999
		store.Entries.Add(duplicate)

		count, err := store.Entries.Count(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(1), count)
	}
	{
		require.NoError(t, store.Entries.Persist(ctx))

		count, err := store.Entries.Count(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(1), count)
	}
	{
		// a later run re-adding the same section is ignored by the db
		rescraped := entry
		rescraped.NResponded = 41
		store.Entries.Add(rescraped)
		require.NoError(t, store.Entries.Persist(ctx))

		count, err := store.Entries.Count(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(1), count)
	}
}

func TestRuns(t *testing.T) {
	store, ctx := setup(t)

	started := time.Unix(1724200000, 0)
	finished := started.Add(time.Minute * 20)

	require.NoError(t, store.Runs.Begin(ctx, "run-0001", started))

	{
		runs, err := store.Runs.List(ctx)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		require.Equal(t, "run-0001", runs[0].Id)
		require.True(t, runs[0].FinishedAt.IsZero())
	}
	{
		require.NoError(t, store.Runs.Finish(ctx, "run-0001", finished, 3))

		runs, err := store.Runs.List(ctx)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		require.Equal(t, int64(3), runs[0].ErrorCount)
		require.Equal(t, finished.Unix(), runs[0].FinishedAt.Unix())
	}
}
