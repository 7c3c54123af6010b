package database

import (
	"context"
	"errors"
	"fmt"
	"log"

	"lms/repository"
)

// ImportStats counts the rows copied and skipped per collection
type ImportStats struct {
	Inserted map[string]int
	Skipped  map[string]int
}

func (s ImportStats) String() string {
	return fmt.Sprintf("inserted=%v skipped=%v", s.Inserted, s.Skipped)
}

// ImportStore copies every record of src into dst. Rows that already exist in
// dst, and progress or certificates whose user or lesson is missing, are skipped.
func ImportStore(ctx context.Context, src, dst repository.Store) (ImportStats, error) {
	stats := ImportStats{Inserted: map[string]int{}, Skipped: map[string]int{}}

	users, err := src.Users().List(ctx)
	if err != nil {
		return stats, fmt.Errorf("list users: %w", err)
	}
	for i := range users {
		user := users[i]
		if err := dst.Users().Save(ctx, &user); err != nil {
			return stats, fmt.Errorf("user %s: %w", user.ID, err)
		}
		stats.Inserted["users"]++

		perms, err := src.Permissions().ListByUser(ctx, user.ID)
		if err != nil {
			return stats, err
		}
		if len(perms) > 0 {
			names := make([]string, 0, len(perms))
			for _, p := range perms {
				names = append(names, p.Permission)
			}
			if err := dst.Permissions().Grant(ctx, user.ID, perms[0].Role, names); err != nil {
				return stats, fmt.Errorf("permissions of %s: %w", user.ID, err)
			}
			stats.Inserted["permissions"] += len(names)
		}

		logins, err := src.Users().Logins(ctx, user.ID)
		if err != nil {
			return stats, err
		}
		known, err := dst.Users().Logins(ctx, user.ID)
		if err != nil {
			return stats, err
		}
		if len(known) > 0 {
			stats.Skipped["logins"] += len(logins)
			continue
		}
		for j := range logins {
			entry := logins[j]
			entry.ID = 0
			if err := dst.Users().RecordLogin(ctx, &entry); err != nil {
				return stats, fmt.Errorf("login of %s: %w", user.ID, err)
			}
			stats.Inserted["logins"]++
		}
	}

	courses, err := src.Courses().List(ctx)
	if err != nil {
		return stats, fmt.Errorf("list courses: %w", err)
	}
	for i := range courses {
		course := courses[i]
		if _, err := dst.Courses().FindByID(ctx, course.ID); err == nil {
			stats.Skipped["courses"]++
			continue
		}
		if err := dst.Courses().Create(ctx, &course); err != nil {
			return stats, fmt.Errorf("course %s: %w", course.ID, err)
		}
		stats.Inserted["courses"]++
	}

	quizzes, err := src.Quizzes().List(ctx)
	if err != nil {
		return stats, fmt.Errorf("list quizzes: %w", err)
	}
	for i := range quizzes {
		quiz := quizzes[i]
		if _, err := dst.Quizzes().FindByID(ctx, quiz.ID); err == nil {
			stats.Skipped["quizzes"]++
			continue
		}
		if err := dst.Quizzes().Create(ctx, &quiz); err != nil {
			return stats, fmt.Errorf("quiz %s: %w", quiz.ID, err)
		}
		stats.Inserted["quizzes"]++
	}

	rows, err := src.Progress().List(ctx)
	if err != nil {
		return stats, fmt.Errorf("list progress: %w", err)
	}
	for i := range rows {
		row := rows[i]
		if !exists(ctx, dst, row.UserID, row.LessonID) {
			log.Printf("Skipping progress %s: user %s or lesson %s missing", row.ID, row.UserID, row.LessonID)
			stats.Skipped["progress"]++
			continue
		}
		if _, err := dst.Progress().Find(ctx, row.UserID, row.LessonID); err == nil {
			stats.Skipped["progress"]++
			continue
		}
		if err := dst.Progress().Save(ctx, &row); err != nil {
			return stats, fmt.Errorf("progress %s: %w", row.ID, err)
		}
		stats.Inserted["progress"]++
	}

	certs, err := src.Certificates().List(ctx)
	if err != nil {
		return stats, fmt.Errorf("list certificates: %w", err)
	}
	loaded := map[string]bool{}
	issued := map[[2]string]bool{}
	for i := range certs {
		cert := certs[i]
		if _, err := dst.Users().FindByID(ctx, cert.UserID); err != nil {
			log.Printf("Skipping certificate %s: user %s missing", cert.ID, cert.UserID)
			stats.Skipped["certificates"]++
			continue
		}
		if !loaded[cert.UserID] {
			existing, err := dst.Certificates().ListByUser(ctx, cert.UserID)
			if err != nil {
				return stats, err
			}
			for _, c := range existing {
				issued[[2]string{c.UserID, c.CourseID}] = true
			}
			loaded[cert.UserID] = true
		}
		key := [2]string{cert.UserID, cert.CourseID}
		if issued[key] {
			stats.Skipped["certificates"]++
			continue
		}
		err := dst.Certificates().Create(ctx, &cert)
		if errors.Is(err, repository.ErrDuplicate) {
			stats.Skipped["certificates"]++
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("certificate %s: %w", cert.ID, err)
		}
		issued[key] = true
		stats.Inserted["certificates"]++
	}

	return stats, nil
}

func exists(ctx context.Context, store repository.Store, userID, lessonID string) bool {
	if _, err := store.Users().FindByID(ctx, userID); err != nil {
		return false
	}
	_, err := store.Courses().FindLesson(ctx, lessonID)
	return err == nil
}
