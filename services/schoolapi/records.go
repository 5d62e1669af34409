package schoolapi

import (
	"context"

	"github.com/trezcool/shule/core/school"
)

type StudentFilter struct {
	ListOptions
	ClassID   int
	SectionID int
	Status    string
}

type StudentsAPI struct{ c *Client }

func (a *StudentsAPI) List(ctx context.Context, f StudentFilter) (Page[school.Student], error) {
	params := f.values()
	setInt(params, "class_id", f.ClassID)
	setInt(params, "section_id", f.SectionID)
	setString(params, "status", f.Status)
	return Get[Page[school.Student]](ctx, a.c, "/students", params)
}

func (a *StudentsAPI) Get(ctx context.Context, id int) (school.Student, error) {
	return Get[school.Student](ctx, a.c, pathf("/students/%d", id), nil)
}

func (a *StudentsAPI) Create(ctx context.Context, ns school.NewStudent) (school.Student, error) {
	return Post[school.Student](ctx, a.c, "/students", ns)
}

func (a *StudentsAPI) Update(ctx context.Context, id int, us school.UpdateStudent) (school.Student, error) {
	return Put[school.Student](ctx, a.c, pathf("/students/%d", id), us)
}

func (a *StudentsAPI) Delete(ctx context.Context, id int) error {
	_, err := Delete[Empty](ctx, a.c, pathf("/students/%d", id))
	return err
}

type ClassesAPI struct{ c *Client }

func (a *ClassesAPI) List(ctx context.Context, opts ListOptions) (Page[school.Class], error) {
	return Get[Page[school.Class]](ctx, a.c, "/classes", opts.values())
}

func (a *ClassesAPI) Get(ctx context.Context, id int) (school.Class, error) {
	return Get[school.Class](ctx, a.c, pathf("/classes/%d", id), nil)
}

func (a *ClassesAPI) Create(ctx context.Context, cls school.Class) (school.Class, error) {
	return Post[school.Class](ctx, a.c, "/classes", cls)
}

func (a *ClassesAPI) Update(ctx context.Context, id int, cls school.Class) (school.Class, error) {
	return Put[school.Class](ctx, a.c, pathf("/classes/%d", id), cls)
}

func (a *ClassesAPI) Delete(ctx context.Context, id int) error {
	_, err := Delete[Empty](ctx, a.c, pathf("/classes/%d", id))
	return err
}

func (a *ClassesAPI) Sections(ctx context.Context, classID int, opts ListOptions) (Page[school.Section], error) {
	return Get[Page[school.Section]](ctx, a.c, pathf("/classes/%d/sections", classID), opts.values())
}

type SectionsAPI struct{ c *Client }

func (a *SectionsAPI) Get(ctx context.Context, id int) (school.Section, error) {
	return Get[school.Section](ctx, a.c, pathf("/sections/%d", id), nil)
}

func (a *SectionsAPI) Create(ctx context.Context, classID int, sec school.Section) (school.Section, error) {
	return Post[school.Section](ctx, a.c, pathf("/classes/%d/sections", classID), sec)
}

func (a *SectionsAPI) Update(ctx context.Context, id int, sec school.Section) (school.Section, error) {
	return Put[school.Section](ctx, a.c, pathf("/sections/%d", id), sec)
}

func (a *SectionsAPI) Delete(ctx context.Context, id int) error {
	_, err := Delete[Empty](ctx, a.c, pathf("/sections/%d", id))
	return err
}

func (a *SectionsAPI) Students(ctx context.Context, sectionID int, opts ListOptions) (Page[school.Student], error) {
	return Get[Page[school.Student]](ctx, a.c, pathf("/sections/%d/students", sectionID), opts.values())
}

type TeachersAPI struct{ c *Client }

func (a *TeachersAPI) List(ctx context.Context, opts ListOptions) (Page[school.Teacher], error) {
	return Get[Page[school.Teacher]](ctx, a.c, "/teachers", opts.values())
}

func (a *TeachersAPI) Get(ctx context.Context, id int) (school.Teacher, error) {
	return Get[school.Teacher](ctx, a.c, pathf("/teachers/%d", id), nil)
}

func (a *TeachersAPI) Create(ctx context.Context, t school.Teacher) (school.Teacher, error) {
	return Post[school.Teacher](ctx, a.c, "/teachers", t)
}

func (a *TeachersAPI) Update(ctx context.Context, id int, t school.Teacher) (school.Teacher, error) {
	return Put[school.Teacher](ctx, a.c, pathf("/teachers/%d", id), t)
}

func (a *TeachersAPI) Delete(ctx context.Context, id int) error {
	_, err := Delete[Empty](ctx, a.c, pathf("/teachers/%d", id))
	return err
}
