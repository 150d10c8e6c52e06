// Package lifecycle 文件生命周期引擎。
// 负责文件在"活跃"与"回收站"两种状态间的全部迁移，以及版本的创建与恢复。
// 磁盘与数据库无法在同一个事务里提交，每个多步操作都按固定顺序执行，
// 任何一步失败都触发既定的补偿动作，保证外部观察到的 (磁盘, 数据库)
// 组合状态只会是操作前或操作后两种合法状态之一。
package lifecycle

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	filemodel "myspace/storage-api/internal/model/file"
	foldermodel "myspace/storage-api/internal/model/folder"
	"myspace/storage-api/internal/observability"
	"myspace/storage-api/internal/response"
)

// BlobStore 字节存储接口，由 blob.Store 实现
type BlobStore interface {
	NewFilePath(userID uint, originalName string) (string, error)
	NewTrashPath(originalPath string) string
	Write(path string, reader io.Reader) (int64, error)
	Move(src, dst string) error
	Copy(src, dst string) error
	Remove(path string) error
	RemoveIfExists(path string) (bool, error)
	Stat(path string) (os.FileInfo, error)
}

// FileRepo 活跃文件元数据接口
type FileRepo interface {
	GetByID(userID, fileID uint) (*filemodel.File, error)
	GetNote(userID, fileID uint) (*filemodel.File, error)
	Create(f *filemodel.File) error
	Delete(userID, fileID uint) (int64, error)
	UpdateSize(fileID uint, size int64) error
	UpdateContent(fileID uint, content string, size int64) error
	UpdateMetadata(userID, fileID uint, metadata string) (int64, error)
	UpdateLyrics(fileID uint, lyrics string) error
	SetPinned(fileID uint, pinned bool) error
}

// TrashRepo 回收站元数据接口
type TrashRepo interface {
	GetByID(userID, trashID uint) (*filemodel.Trash, error)
	ListByUser(userID uint) ([]filemodel.Trash, error)
	Create(t *filemodel.Trash) error
	Delete(trashID uint) (int64, error)
}

// VersionRepo 版本元数据接口
type VersionRepo interface {
	GetByID(fileID, versionID uint) (*filemodel.FileVersion, error)
	CreateNext(v *filemodel.FileVersion) error
	DeleteByFile(fileID uint) error
}

// FolderGetter 文件夹归属与类型查询（只读上下文）
type FolderGetter interface {
	GetOwned(userID, folderID uint) (*foldermodel.Folder, error)
}

// Recorder 动态记录器。写入即发即弃，失败不影响业务操作。
type Recorder interface {
	Record(userID uint, activityType string, targetID uint, targetType string, data map[string]any)
}

// Service 生命周期引擎
type Service struct {
	files    FileRepo
	trash    TrashRepo
	versions VersionRepo
	folders  FolderGetter
	blob     BlobStore

	activities Recorder
	logger     *zap.Logger
	locks      *fileLocks
}

func NewService(
	files FileRepo,
	trash TrashRepo,
	versions VersionRepo,
	folders FolderGetter,
	blob BlobStore,
	activities Recorder,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		files:      files,
		trash:      trash,
		versions:   versions,
		folders:    folders,
		blob:       blob,
		activities: activities,
		logger:     logger,
		locks:      newFileLocks(),
	}
}

// ===== 上传与笔记 =====

// CreateFromUpload 从上传内容创建文件。
// 步骤：校验文件夹归属与类型兼容 → 写入字节 → 插入元数据行；
// 元数据插入失败时删除已写入的字节。类型不兼容在任何字节落盘之前就拒绝。
func (s *Service) CreateFromUpload(userID, folderID uint, reader io.Reader, name, declaredType string) (*filemodel.File, *response.BusinessError) {
	f, bizErr := s.createFromUpload(userID, folderID, reader, name, declaredType)
	s.record("create_from_upload", bizErr)
	return f, bizErr
}

func (s *Service) createFromUpload(userID, folderID uint, reader io.Reader, name, declaredType string) (*filemodel.File, *response.BusinessError) {
	if name == "" {
		return nil, response.NewValidationError("文件名不能为空")
	}
	if declaredType == "" {
		declaredType = "application/octet-stream"
	}

	// 1. 校验文件夹归属与类型兼容
	fold, err := s.folders.GetOwned(userID, folderID)
	if err != nil {
		return nil, s.lookupError(err, "文件夹不存在或无权访问")
	}
	if !folderAccepts(fold.Type, declaredType) {
		return nil, response.NewValidationError(
			fmt.Sprintf("%s 类型的文件夹不接受 %s 类型的文件", fold.Type, declaredType))
	}

	// 2. 写入字节
	path, err := s.blob.NewFilePath(userID, name)
	if err != nil {
		return nil, response.NewStorageError("无法分配存储路径", err)
	}
	size, err := s.blob.Write(path, reader)
	if err != nil {
		return nil, response.NewStorageError("写入文件失败", err)
	}

	// 3. 插入元数据行，失败则删除已写入的字节
	f := &filemodel.File{
		FolderID: folderID,
		UserID:   userID,
		Name:     name,
		Type:     declaredType,
		Path:     path,
		Size:     size,
		Metadata: initialMetadata(declaredType),
	}
	if err := s.files.Create(f); err != nil {
		s.compensate("create_from_upload", s.blob.Remove(path))
		return nil, response.NewConsistencyError("保存文件元数据失败", err)
	}

	s.emit(userID, "upload", f.ID, "file", map[string]any{
		"name": name, "type": declaredType, "size": size,
	})
	return f, nil
}

// CreateNote 创建笔记文件。内容同时写入磁盘（作为字节权威）
// 与元数据行的 content 列（便于快速读取）。
func (s *Service) CreateNote(userID, folderID uint, name, content, description string) (*filemodel.File, *response.BusinessError) {
	f, bizErr := s.createNote(userID, folderID, name, content, description)
	s.record("create_note", bizErr)
	return f, bizErr
}

func (s *Service) createNote(userID, folderID uint, name, content, description string) (*filemodel.File, *response.BusinessError) {
	if name == "" {
		return nil, response.NewValidationError("笔记名称不能为空")
	}

	// 1. 校验目标必须是笔记文件夹
	fold, err := s.folders.GetOwned(userID, folderID)
	if err != nil {
		return nil, s.lookupError(err, "文件夹不存在或无权访问")
	}
	if fold.Type != "note" {
		return nil, response.NewValidationError("只能在笔记类型的文件夹中创建笔记")
	}

	// 2. 写入字节
	path, err := s.blob.NewFilePath(userID, name+".txt")
	if err != nil {
		return nil, response.NewStorageError("无法分配存储路径", err)
	}
	size, err := s.blob.Write(path, strings.NewReader(content))
	if err != nil {
		return nil, response.NewStorageError("写入笔记失败", err)
	}

	// 3. 插入元数据行，失败则删除已写入的字节
	f := &filemodel.File{
		FolderID:    folderID,
		UserID:      userID,
		Name:        name,
		Type:        "text/plain",
		Path:        path,
		Size:        size,
		Content:     content,
		Description: description,
	}
	if err := s.files.Create(f); err != nil {
		s.compensate("create_note", s.blob.Remove(path))
		return nil, response.NewConsistencyError("保存笔记元数据失败", err)
	}

	s.emit(userID, "create_note", f.ID, "file", map[string]any{
		"name": name, "folder_id": folderID,
	})
	return f, nil
}

// UpdateNote 更新笔记内容并同步行里的 content 与 size
func (s *Service) UpdateNote(userID, fileID uint, content string) *response.BusinessError {
	s.locks.Lock(fileID)
	defer s.locks.Unlock(fileID)

	bizErr := s.updateNote(userID, fileID, content)
	s.record("update_note", bizErr)
	return bizErr
}

func (s *Service) updateNote(userID, fileID uint, content string) *response.BusinessError {
	f, err := s.files.GetNote(userID, fileID)
	if err != nil {
		return s.lookupError(err, "笔记不存在或无权访问")
	}

	// 写入是 temp+rename 的原子替换，失败时磁盘上仍是旧内容
	size, err := s.blob.Write(f.Path, strings.NewReader(content))
	if err != nil {
		return response.NewStorageError("更新笔记失败", err)
	}

	if err := s.files.UpdateContent(f.ID, content, size); err != nil {
		return response.NewConsistencyError("笔记字节已更新但元数据未同步", err)
	}

	s.emit(userID, "update_note", f.ID, "file", nil)
	return nil
}

// ===== 回收站生命周期 =====

// SoftDelete 将文件移入回收站。
// 步骤：查行 → 移动字节到回收站路径 → 插入回收站行 → 删除活跃行。
// 任何一步失败都把文件移回原路径（并撤销已插入的回收站行），
// 不存在文件同时出现在两张表里的中间状态。
func (s *Service) SoftDelete(userID, fileID uint) (*filemodel.Trash, *response.BusinessError) {
	s.locks.Lock(fileID)
	defer s.locks.Unlock(fileID)

	t, bizErr := s.softDelete(userID, fileID)
	s.record("soft_delete", bizErr)
	return t, bizErr
}

func (s *Service) softDelete(userID, fileID uint) (*filemodel.Trash, *response.BusinessError) {
	// 1. 查行并校验归属
	f, err := s.files.GetByID(userID, fileID)
	if err != nil {
		return nil, s.lookupError(err, "文件不存在或无权访问")
	}

	// 2. 移动字节到回收站路径（与原名无关，抗冲突）
	trashPath := s.blob.NewTrashPath(f.Path)
	if err := s.blob.Move(f.Path, trashPath); err != nil {
		return nil, response.NewStorageError("移动文件到回收站失败", err)
	}

	// 3. 插入回收站行，失败则把文件移回去
	t := &filemodel.Trash{
		OriginalID:    f.ID,
		UserID:        f.UserID,
		FolderID:      f.FolderID,
		Name:          f.Name,
		Type:          f.Type,
		Path:          trashPath,
		OriginalPath:  f.Path,
		Size:          f.Size,
		Description:   f.Description,
		Lyrics:        f.Lyrics,
		Content:       f.Content,
		Metadata:      f.Metadata,
		ThumbnailPath: f.ThumbnailPath,
		Duration:      f.Duration,
		Artist:        f.Artist,
		Album:         f.Album,
	}
	if err := s.trash.Create(t); err != nil {
		s.compensate("soft_delete", s.blob.Move(trashPath, f.Path))
		return nil, response.NewConsistencyError("回收站记录写入失败", err)
	}

	// 4. 删除活跃行；失败或 0 行受影响都撤销前两步
	rows, err := s.files.Delete(userID, fileID)
	if err != nil || rows == 0 {
		if _, delErr := s.trash.Delete(t.ID); delErr != nil {
			s.compensate("soft_delete", delErr)
		}
		s.compensate("soft_delete", s.blob.Move(trashPath, f.Path))
		if err != nil {
			return nil, response.NewConsistencyError("删除活跃文件记录失败", err)
		}
		// 并发操作已抢先删除了这一行
		return nil, response.NewNotFoundError("文件不存在或无权访问")
	}

	s.emit(userID, "trash", f.ID, "file", map[string]any{"name": f.Name})
	return t, nil
}

// Restore 把回收站中的文件恢复到原路径与原 ID。
// SoftDelete 的逆操作，使用同样的有序补偿纪律。
func (s *Service) Restore(userID, trashID uint) (*filemodel.File, *response.BusinessError) {
	f, bizErr := s.restore(userID, trashID)
	s.record("restore", bizErr)
	return f, bizErr
}

func (s *Service) restore(userID, trashID uint) (*filemodel.File, *response.BusinessError) {
	// 1. 查回收站行
	t, err := s.trash.GetByID(userID, trashID)
	if err != nil {
		return nil, s.lookupError(err, "回收站中不存在该项目或无权访问")
	}

	// 对原文件 ID 加锁，与同一文件的其他操作互斥
	s.locks.Lock(t.OriginalID)
	defer s.locks.Unlock(t.OriginalID)

	// 2. 把字节移回原路径
	if err := s.blob.Move(t.Path, t.OriginalPath); err != nil {
		return nil, response.NewStorageError("恢复文件失败", err)
	}

	// 3. 用原 ID 插回活跃表，失败则把字节移回回收站
	f := &filemodel.File{
		ID:            t.OriginalID,
		FolderID:      t.FolderID,
		UserID:        t.UserID,
		Name:          t.Name,
		Type:          t.Type,
		Path:          t.OriginalPath,
		Size:          t.Size,
		Description:   t.Description,
		Lyrics:        t.Lyrics,
		Content:       t.Content,
		Metadata:      t.Metadata,
		ThumbnailPath: t.ThumbnailPath,
		Duration:      t.Duration,
		Artist:        t.Artist,
		Album:         t.Album,
	}
	if err := s.files.Create(f); err != nil {
		s.compensate("restore", s.blob.Move(t.OriginalPath, t.Path))
		return nil, response.NewConsistencyError("恢复文件记录失败", err)
	}

	// 4. 删除回收站行；失败则撤销前两步
	rows, err := s.trash.Delete(t.ID)
	if err != nil || rows == 0 {
		if _, delErr := s.files.Delete(userID, f.ID); delErr != nil {
			s.compensate("restore", delErr)
		}
		s.compensate("restore", s.blob.Move(t.OriginalPath, t.Path))
		if err != nil {
			return nil, response.NewConsistencyError("删除回收站记录失败", err)
		}
		return nil, response.NewNotFoundError("回收站中不存在该项目或无权访问")
	}

	s.emit(userID, "restore", f.ID, "file", map[string]any{"name": f.Name})
	return f, nil
}

// PurgeOne 永久删除回收站中的一个项目。
// 字节缺失视为成功（行才是权威），先删字节再删行。
func (s *Service) PurgeOne(userID, trashID uint) *response.BusinessError {
	bizErr := s.purgeOne(userID, trashID)
	s.record("purge_one", bizErr)
	return bizErr
}

func (s *Service) purgeOne(userID, trashID uint) *response.BusinessError {
	t, err := s.trash.GetByID(userID, trashID)
	if err != nil {
		return s.lookupError(err, "回收站中不存在该项目或无权访问")
	}

	s.locks.Lock(t.OriginalID)
	defer s.locks.Unlock(t.OriginalID)

	if _, err := s.blob.RemoveIfExists(t.Path); err != nil {
		return response.NewStorageError("删除文件失败", err)
	}

	rows, err := s.trash.Delete(t.ID)
	if err != nil {
		return response.NewConsistencyError("字节已删除但回收站记录未清除", err)
	}
	if rows == 0 {
		return response.NewNotFoundError("回收站中不存在该项目或无权访问")
	}

	s.emit(userID, "purge", t.OriginalID, "file", map[string]any{"name": t.Name})
	return nil
}

// PurgeItemError 清空回收站时单个项目的失败信息
type PurgeItemError struct {
	TrashID uint   `json:"trash_id"`
	Detail  string `json:"detail"`
}

// PurgeResult 清空回收站的汇总结果。
// Suppressed 记录字节已缺失但行成功清除的项目数（非错误）。
type PurgeResult struct {
	DeletedCount int              `json:"deleted_count"`
	Suppressed   int              `json:"suppressed"`
	Errors       []PurgeItemError `json:"errors,omitempty"`
}

// PurgeAll 清空用户的回收站。逐项删除，单项失败不会中止整批：
// 删除成功的项目其行被清除，失败的项目保留行并汇总进结果。
func (s *Service) PurgeAll(userID uint) (*PurgeResult, *response.BusinessError) {
	items, err := s.trash.ListByUser(userID)
	if err != nil {
		be := response.NewDatabaseError(err)
		s.record("purge_all", be)
		return nil, be
	}

	result := &PurgeResult{}
	for _, item := range items {
		existed, err := s.blob.RemoveIfExists(item.Path)
		if err != nil {
			result.Errors = append(result.Errors, PurgeItemError{TrashID: item.ID, Detail: err.Error()})
			continue
		}
		if !existed {
			result.Suppressed++
		}

		rows, err := s.trash.Delete(item.ID)
		if err != nil {
			result.Errors = append(result.Errors, PurgeItemError{TrashID: item.ID, Detail: err.Error()})
			continue
		}
		if rows > 0 {
			result.DeletedCount++
		}
	}

	s.emit(userID, "purge_all", 0, "trash", map[string]any{"deleted_count": result.DeletedCount})
	s.record("purge_all", nil)
	return result, nil
}

// HardDelete 绕过回收站直接删除文件。
// 顺序：删版本行 → 删活跃行 → 删字节。行删除之后字节删除失败只上报，
// 不会复活行——files 表是"文件对用户是否存在"的权威。
func (s *Service) HardDelete(userID, fileID uint) *response.BusinessError {
	s.locks.Lock(fileID)
	defer s.locks.Unlock(fileID)

	bizErr := s.hardDelete(userID, fileID)
	s.record("hard_delete", bizErr)
	return bizErr
}

func (s *Service) hardDelete(userID, fileID uint) *response.BusinessError {
	f, err := s.files.GetByID(userID, fileID)
	if err != nil {
		return s.lookupError(err, "文件不存在或无权访问")
	}

	if err := s.versions.DeleteByFile(fileID); err != nil {
		return response.NewDatabaseError(err)
	}

	rows, err := s.files.Delete(userID, fileID)
	if err != nil {
		return response.NewDatabaseError(err)
	}
	if rows == 0 {
		return response.NewNotFoundError("文件不存在或无权访问")
	}

	if _, err := s.blob.RemoveIfExists(f.Path); err != nil {
		return response.NewStorageError("文件记录已删除但字节清理失败", err)
	}

	s.emit(userID, "delete", fileID, "file", map[string]any{"path": f.Path})
	return nil
}

// ===== 版本 =====

// CreateVersion 为文件创建新版本。版本号在插入语句内计算（数量 + 1），
// 配合文件锁与唯一索引，编号严格递增且不重用。
func (s *Service) CreateVersion(userID, fileID uint, reader io.Reader, notes string) (*filemodel.FileVersion, *response.BusinessError) {
	s.locks.Lock(fileID)
	defer s.locks.Unlock(fileID)

	v, bizErr := s.createVersion(userID, fileID, reader, notes)
	s.record("create_version", bizErr)
	return v, bizErr
}

func (s *Service) createVersion(userID, fileID uint, reader io.Reader, notes string) (*filemodel.FileVersion, *response.BusinessError) {
	f, err := s.files.GetByID(userID, fileID)
	if err != nil {
		return nil, s.lookupError(err, "文件不存在或无权访问")
	}

	path, err := s.blob.NewFilePath(userID, f.Name)
	if err != nil {
		return nil, response.NewStorageError("无法分配版本存储路径", err)
	}
	size, err := s.blob.Write(path, reader)
	if err != nil {
		return nil, response.NewStorageError("写入版本失败", err)
	}

	v := &filemodel.FileVersion{
		FileID:    fileID,
		Path:      path,
		Size:      size,
		CreatedBy: userID,
		Notes:     notes,
		CreatedAt: time.Now(),
	}
	if err := s.versions.CreateNext(v); err != nil {
		s.compensate("create_version", s.blob.Remove(path))
		return nil, response.NewConsistencyError("保存版本元数据失败", err)
	}

	s.emit(userID, "create_version", fileID, "file", map[string]any{
		"version_number": v.VersionNumber,
	})
	return v, nil
}

// RestoreVersion 把某个历史版本的内容覆盖到活跃文件上。
// 先把当前内容备份到同目录的 .bak，任何一步失败都从备份恢复；
// 备份只在元数据更新成功之后删除。
func (s *Service) RestoreVersion(userID, fileID, versionID uint) *response.BusinessError {
	s.locks.Lock(fileID)
	defer s.locks.Unlock(fileID)

	bizErr := s.restoreVersion(userID, fileID, versionID)
	s.record("restore_version", bizErr)
	return bizErr
}

func (s *Service) restoreVersion(userID, fileID, versionID uint) *response.BusinessError {
	f, err := s.files.GetByID(userID, fileID)
	if err != nil {
		return s.lookupError(err, "文件不存在或无权访问")
	}

	v, err := s.versions.GetByID(fileID, versionID)
	if err != nil {
		return s.lookupError(err, "版本不存在")
	}

	// 1. 备份当前内容
	backupPath := f.Path + ".bak"
	if err := s.blob.Copy(f.Path, backupPath); err != nil {
		return response.NewStorageError("备份当前文件失败", err)
	}

	// 2. 用版本内容覆盖活跃路径，失败则从备份恢复
	if err := s.blob.Copy(v.Path, f.Path); err != nil {
		s.compensate("restore_version", s.blob.Copy(backupPath, f.Path))
		s.compensate("restore_version", s.blob.Remove(backupPath))
		return response.NewStorageError("恢复版本内容失败", err)
	}

	// 3. 同步元数据行的大小与更新时间，失败同样回滚字节
	info, err := s.blob.Stat(f.Path)
	if err != nil {
		s.compensate("restore_version", s.blob.Copy(backupPath, f.Path))
		s.compensate("restore_version", s.blob.Remove(backupPath))
		return response.NewStorageError("读取恢复后的文件信息失败", err)
	}
	if err := s.files.UpdateSize(f.ID, info.Size()); err != nil {
		s.compensate("restore_version", s.blob.Copy(backupPath, f.Path))
		s.compensate("restore_version", s.blob.Remove(backupPath))
		return response.NewConsistencyError("版本字节已恢复但元数据未同步", err)
	}

	// 4. 元数据更新成功后才清理备份
	s.compensate("restore_version", s.blob.Remove(backupPath))

	s.emit(userID, "restore_version", fileID, "file", map[string]any{
		"version_id": versionID,
	})
	return nil
}

// ===== 行级小操作 =====

// TogglePin 切换置顶状态，返回新状态
func (s *Service) TogglePin(userID, fileID uint) (bool, *response.BusinessError) {
	f, err := s.files.GetByID(userID, fileID)
	if err != nil {
		return false, s.lookupError(err, "文件不存在或无权访问")
	}

	newState := !f.Pinned
	if err := s.files.SetPinned(f.ID, newState); err != nil {
		return false, response.NewDatabaseError(err)
	}
	return newState, nil
}

// UpdateMetadata 更新自由格式元数据。只校验 JSON 语法，不校验内容结构。
func (s *Service) UpdateMetadata(userID, fileID uint, metadata string) *response.BusinessError {
	if !json.Valid([]byte(metadata)) {
		return response.NewValidationError("元数据必须是合法的 JSON")
	}

	rows, err := s.files.UpdateMetadata(userID, fileID, metadata)
	if err != nil {
		return response.NewDatabaseError(err)
	}
	if rows == 0 {
		return response.NewNotFoundError("文件不存在或无权访问")
	}
	return nil
}

// UpdateLyrics 更新歌词，仅音频文件可用
func (s *Service) UpdateLyrics(userID, fileID uint, lyrics string) *response.BusinessError {
	f, err := s.files.GetByID(userID, fileID)
	if err != nil {
		return s.lookupError(err, "文件不存在或无权访问")
	}
	if !strings.HasPrefix(f.Type, "audio/") {
		return response.NewValidationError("只有音频文件可以添加歌词")
	}

	if err := s.files.UpdateLyrics(f.ID, lyrics); err != nil {
		return response.NewDatabaseError(err)
	}
	return nil
}

// ===== 内部辅助 =====

// lookupError 查询错误归类：记录不存在与归属不符统一映射为 NotFound
func (s *Service) lookupError(err error, detail string) *response.BusinessError {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewNotFoundError(detail)
	}
	return response.NewDatabaseError(err)
}

// compensate 执行补偿动作并记录其自身的失败。
// 补偿失败只写日志，不掩盖上报给调用者的原始错误。
func (s *Service) compensate(operation string, err error) {
	if err != nil {
		s.logger.Error("补偿动作失败",
			zap.String("operation", operation),
			zap.Error(err),
		)
	}
}

// emit 即发即弃地写动态记录
func (s *Service) emit(userID uint, activityType string, targetID uint, targetType string, data map[string]any) {
	if s.activities == nil {
		return
	}
	s.activities.Record(userID, activityType, targetID, targetType, data)
}

// record 上报操作指标
func (s *Service) record(operation string, bizErr *response.BusinessError) {
	if bizErr != nil {
		observability.RecordOperation(operation, bizErr)
		return
	}
	observability.RecordOperation(operation, nil)
}

// ===== 文件夹类型兼容规则 =====

var noteMimeTypes = map[string]bool{
	"text/plain":             true,
	"text/markdown":          true,
	"text/html":              true,
	"text/css":               true,
	"application/javascript": true,
	"application/json":       true,
}

var documentMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       true,
	"application/vnd.ms-powerpoint":                                           true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
}

// folderAccepts 判断文件夹类型是否接受该 MIME 类型。
// 未作限制的文件夹类型接受任意内容。
func folderAccepts(folderType, mime string) bool {
	switch folderType {
	case "note":
		return noteMimeTypes[mime]
	case "image":
		return strings.HasPrefix(mime, "image/")
	case "audio":
		return strings.HasPrefix(mime, "audio/")
	case "video":
		return strings.HasPrefix(mime, "video/")
	case "document":
		return documentMimeTypes[mime]
	default:
		return true
	}
}

// initialMetadata 按类型生成初始元数据占位（后续由处理流程补全）
func initialMetadata(mime string) string {
	switch {
	case strings.HasPrefix(mime, "audio/"):
		return `{"duration":0}`
	case strings.HasPrefix(mime, "image/"):
		return `{"width":0,"height":0}`
	default:
		return "{}"
	}
}
