package handlers

import (
	"net/http"
	"strconv"
	"time"

	"taskbook/internal/auth"
	dom "taskbook/internal/domain"
	"taskbook/internal/dto"
	"taskbook/internal/service"

	"github.com/gin-gonic/gin"
)

// TaskHandler serves the task pages and the JSON task endpoints.
type TaskHandler struct {
	tasks *service.TaskService
	users *service.UserService
}

func NewTaskHandler(tasks *service.TaskService, users *service.UserService) *TaskHandler {
	return &TaskHandler{tasks: tasks, users: users}
}

// Index godoc
// @Summary      Home page: the caller's tasks sorted by due date
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.TaskListPage
// @Failure      500  {object}  map[string]string
// @Router       / [get]
func (h *TaskHandler) Index(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	list, err := h.tasks.List(c.Request.Context(), userID, "due_date", "asc")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.listPage(c, userID, list))
}

// Add godoc
// @Summary      Add a task
// @Tags         tasks
// @Accept       x-www-form-urlencoded
// @Security     CookieAuth
// @Param        name      formData  string  true  "Task name"
// @Param        due_date  formData  string  true  "Due date (YYYY-MM-DD)"
// @Success      302
// @Failure      400  {object}  map[string]string
// @Router       /add-task [post]
func (h *TaskHandler) Add(c *gin.Context) {
	var form dto.AddTaskForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and due_date (YYYY-MM-DD) are required"})
		return
	}
	userID := auth.UserIDFromContext(c)
	if _, err := h.tasks.Create(c.Request.Context(), userID, form.Name, form.DueDate); err != nil {
		if err == service.ErrEmptyName {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Update godoc
// @Summary      Update a task's name and/or due date
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Task ID"
// @Param        body  body      dto.UpdateTaskRequest  true  "Partial update"
// @Success      200   {object}  map[string]bool
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /update-task/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var duePtr *time.Time
	if req.DueDate != nil {
		due := req.DueDate.Time()
		duePtr = &due
	}
	userID := auth.UserIDFromContext(c)
	_, err := h.tasks.Update(c.Request.Context(), userID, id, req.Name, duePtr)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case service.ErrEmptyName:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateStatus godoc
// @Summary      Set a task's done flag
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Task ID"
// @Param        body  body      dto.UpdateTaskStatusRequest  true  "New status"
// @Success      200   {object}  map[string]bool
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /update-task-status/{id} [put]
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := auth.UserIDFromContext(c)
	if _, err := h.tasks.UpdateStatus(c.Request.Context(), userID, id, *req.IsDone); err != nil {
		if err == service.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Delete godoc
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Param        id   path  int  true  "Task ID"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  map[string]string
// @Router       /delete-task/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := auth.UserIDFromContext(c)
	if err := h.tasks.Delete(c.Request.Context(), userID, id); err != nil {
		if err == service.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		// Storage failures surface as the generic delete error, not a stack trace.
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to delete task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// List godoc
// @Summary      List the caller's tasks, sorted
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Param        sort_by  query  string  false  "name | due_date | is_done (default due_date)"
// @Param        order    query  string  false  "asc | desc (default asc)"
// @Success      200  {array}   dto.TaskResponse
// @Failure      500  {object}  map[string]string
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	list, err := h.tasks.List(c.Request.Context(), userID, c.Query("sort_by"), c.Query("order"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
		c.JSON(http.StatusOK, tasksToResponses(list))
		return
	}
	c.JSON(http.StatusOK, h.listPage(c, userID, list))
}

func (h *TaskHandler) listPage(c *gin.Context, userID int64, list []dom.Task) dto.TaskListPage {
	page := dto.TaskListPage{Tasks: tasksToResponses(list)}
	if u, err := h.users.GetByID(c.Request.Context(), userID); err == nil {
		page.Username = u.Username
	}
	return page
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func taskToResponse(t dom.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:        t.ID,
		Name:      t.Name,
		IsDone:    t.IsDone,
		DueDate:   dto.FormatDate(t.DueDate),
		CreatedAt: t.CreatedAt,
	}
}

func tasksToResponses(list []dom.Task) []dto.TaskResponse {
	out := make([]dto.TaskResponse, len(list))
	for i := range list {
		out[i] = taskToResponse(list[i])
	}
	return out
}
