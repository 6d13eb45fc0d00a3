package code

var (
	Success = NewSuss(1, lang{
		en:    "Success",
		zh_cn: "成功",
	})

	// Common errors 10000000+
	ErrorInvalidParams = NewError(10000001, lang{
		en:    "Invalid request parameters",
		zh_cn: "请求参数错误",
	})
	ErrorNotFoundAPI = NewError(10000002, lang{
		en:    "API route not found",
		zh_cn: "接口不存在",
	})
	ErrorTooManyRequests = NewError(10000003, lang{
		en:    "Too many requests",
		zh_cn: "请求过多",
	})
	ErrorServerInternal = NewError(10000004, lang{
		en:    "Internal server error",
		zh_cn: "服务内部错误",
	})
	ErrorDBQuery = NewError(10000005, lang{
		en:    "Database query failed",
		zh_cn: "数据库查询失败",
	})
	ErrorRequestTimeout = NewError(10000006, lang{
		en:    "Request timed out",
		zh_cn: "请求超时",
	})

	// Auth token errors 10010000+
	ErrorNotUserAuthToken = NewError(10010001, lang{
		en:    "Missing authorization token",
		zh_cn: "缺少授权令牌",
	})
	ErrorInvalidUserAuthToken = NewError(10010002, lang{
		en:    "Invalid or expired authorization token",
		zh_cn: "授权令牌无效或已过期",
	})
	ErrorUserAuthTokenGenerate = NewError(10010003, lang{
		en:    "Failed to generate authorization token",
		zh_cn: "授权令牌生成失败",
	})
	ErrorNotShareAuthToken = NewError(10010004, lang{
		en:    "Missing share token",
		zh_cn: "缺少分享令牌",
	})
	ErrorInvalidShareAuthToken = NewError(10010005, lang{
		en:    "Invalid or expired share token",
		zh_cn: "分享令牌无效或已过期",
	})

	// User and account errors 10020000+
	//
	// ErrorInvalidLogin is deliberately the only code returned for wrong
	// username, wrong password, or an account in a state that cannot log in.
	ErrorInvalidLogin = NewError(10020001, lang{
		en:    "Invalid login credentials",
		zh_cn: "登录凭证无效",
	})
	ErrorInvalidRecovery = NewError(10020002, lang{
		en:    "Invalid recovery request",
		zh_cn: "找回请求无效",
	})
	ErrorUserRegisterClosed = NewError(10020003, lang{
		en:    "Registration is closed",
		zh_cn: "注册已关闭",
	})
	ErrorUserRegisterInviteToken = NewError(10020004, lang{
		en:    "A valid invite token is required to register",
		zh_cn: "注册需要有效的邀请令牌",
	})
	ErrorUserNameExists = NewError(10020005, lang{
		en:    "Username is already taken",
		zh_cn: "用户名已被占用",
	})
	ErrorUserEmailExists = NewError(10020006, lang{
		en:    "Email is already registered",
		zh_cn: "邮箱已被注册",
	})
	ErrorUserCreateFail = NewError(10020007, lang{
		en:    "Failed to create user",
		zh_cn: "用户创建失败",
	})
	ErrorUserNotFound = NewError(10020008, lang{
		en:    "User not found",
		zh_cn: "用户不存在",
	})
	ErrorUserValidationToken = NewError(10020010, lang{
		en:    "Invalid or expired validation token",
		zh_cn: "验证令牌无效或已过期",
	})
	ErrorUserPasswordWeak = NewError(10020011, lang{
		en:    "Password must be at least 8 characters with letters and digits",
		zh_cn: "密码至少 8 位且包含字母和数字",
	})
	ErrorUserPasswordSame = NewError(10020012, lang{
		en:    "New password must differ from the old one",
		zh_cn: "新密码不能与旧密码相同",
	})
	ErrorUserOldPassword = NewError(10020013, lang{
		en:    "Old password is incorrect",
		zh_cn: "旧密码不正确",
	})
	ErrorUserUpdateFail = NewError(10020014, lang{
		en:    "Failed to update user",
		zh_cn: "用户更新失败",
	})
	ErrorUserDeactivated = NewError(10020015, lang{
		en:    "Account has been deactivated",
		zh_cn: "账户已停用",
	})
	ErrorUserLoginDisabled = NewError(10020016, lang{
		en:    "Logins are temporarily disabled",
		zh_cn: "登录功能暂时关闭",
	})
	ErrorUserTOTPRequired = NewError(10020017, lang{
		en:    "A second authentication step is required",
		zh_cn: "需要第二步验证",
	})
	ErrorUserTOTPInvalid = NewError(10020018, lang{
		en:    "Invalid one-time code",
		zh_cn: "一次性验证码无效",
	})
	ErrorUserTOTPAlreadyEnabled = NewError(10020019, lang{
		en:    "Two-factor authentication is already enabled",
		zh_cn: "两步验证已开启",
	})
	ErrorUserTOTPNotEnabled = NewError(10020020, lang{
		en:    "Two-factor authentication is not enabled",
		zh_cn: "两步验证未开启",
	})
	ErrorUserMailSendFail = NewError(10020021, lang{
		en:    "Failed to send mail",
		zh_cn: "邮件发送失败",
	})

	// Notebook errors 10030000+
	ErrorNotebookNotFound = NewError(10030001, lang{
		en:    "Notebook not found",
		zh_cn: "笔记本不存在",
	})
	ErrorNotebookCreateFail = NewError(10030002, lang{
		en:    "Failed to create notebook",
		zh_cn: "笔记本创建失败",
	})
	ErrorNotebookUpdateFail = NewError(10030003, lang{
		en:    "Failed to update notebook",
		zh_cn: "笔记本更新失败",
	})
	ErrorNotebookDeleteFail = NewError(10030004, lang{
		en:    "Failed to delete notebook",
		zh_cn: "笔记本删除失败",
	})
	ErrorNotebookAccessDenied = NewError(10030005, lang{
		en:    "No access to this notebook",
		zh_cn: "无权访问该笔记本",
	})
	ErrorNotebookReadOnly = NewError(10030006, lang{
		en:    "Notebook is read only for this user",
		zh_cn: "该笔记本对当前用户只读",
	})
	ErrorNotebookTransferSelf = NewError(10030007, lang{
		en:    "Cannot transfer a notebook to its current owner",
		zh_cn: "不能将笔记本转让给当前所有者",
	})

	// Node errors 10040000+
	ErrorNodeNotFound = NewError(10040001, lang{
		en:    "Node not found",
		zh_cn: "节点不存在",
	})
	ErrorNodeCreateFail = NewError(10040002, lang{
		en:    "Failed to create node",
		zh_cn: "节点创建失败",
	})
	ErrorNodeUpdateFail = NewError(10040003, lang{
		en:    "Failed to update node",
		zh_cn: "节点更新失败",
	})
	ErrorNodeDeleteFail = NewError(10040004, lang{
		en:    "Failed to delete node",
		zh_cn: "节点删除失败",
	})
	ErrorNodeVersionConflict = NewError(10040005, lang{
		en:    "Node was modified by another client",
		zh_cn: "节点已被其他客户端修改",
	})
	ErrorNodeRevisionNotFound = NewError(10040006, lang{
		en:    "Node revision not found",
		zh_cn: "节点历史版本不存在",
	})
	ErrorNodeNotDeleted = NewError(10040007, lang{
		en:    "Node is not in the recycle bin",
		zh_cn: "节点不在回收站中",
	})

	// Link errors 10050000+
	ErrorLinkNotFound = NewError(10050001, lang{
		en:    "Link not found",
		zh_cn: "链接不存在",
	})
	ErrorLinkCreateFail = NewError(10050002, lang{
		en:    "Failed to create link",
		zh_cn: "链接创建失败",
	})
	ErrorLinkSelfReference = NewError(10050003, lang{
		en:    "A node cannot link to itself",
		zh_cn: "节点不能链接到自身",
	})

	// Share errors 10060000+
	ErrorShareNotFound = NewError(10060001, lang{
		en:    "Share not found",
		zh_cn: "分享不存在",
	})
	ErrorShareCreateFail = NewError(10060002, lang{
		en:    "Failed to create share",
		zh_cn: "分享创建失败",
	})
	ErrorShareExists = NewError(10060003, lang{
		en:    "Notebook is already shared with this user",
		zh_cn: "该笔记本已分享给此用户",
	})
	ErrorShareSelf = NewError(10060004, lang{
		en:    "Cannot share a notebook with its owner",
		zh_cn: "不能将笔记本分享给所有者",
	})

	// Module errors 10070000+
	ErrorModuleNotFound = NewError(10070001, lang{
		en:    "Module not found",
		zh_cn: "模块不存在",
	})
	ErrorModuleUnknownKind = NewError(10070002, lang{
		en:    "Unknown module kind",
		zh_cn: "未知的模块类型",
	})
	ErrorModuleAttached = NewError(10070003, lang{
		en:    "Module kind is already attached to this notebook",
		zh_cn: "该模块类型已附加到此笔记本",
	})
	ErrorModuleRunFail = NewError(10070004, lang{
		en:    "Module run failed",
		zh_cn: "模块运行失败",
	})

	// Invite token errors 10080000+
	ErrorInviteTokenNotFound = NewError(10080001, lang{
		en:    "Invite token not found",
		zh_cn: "邀请令牌不存在",
	})
	ErrorInviteTokenCreateFail = NewError(10080002, lang{
		en:    "Failed to create invite token",
		zh_cn: "邀请令牌创建失败",
	})

	// Settings errors 10090000+
	ErrorSettingNotFound = NewError(10090001, lang{
		en:    "Setting not found",
		zh_cn: "设置项不存在",
	})
	ErrorSettingUpdateFail = NewError(10090002, lang{
		en:    "Failed to update setting",
		zh_cn: "设置更新失败",
	})
	ErrorAdminRequired = NewError(10090003, lang{
		en:    "Administrator privileges required",
		zh_cn: "需要管理员权限",
	})

	// Export and import errors 10100000+
	ErrorExportFail = NewError(10100001, lang{
		en:    "Notebook export failed",
		zh_cn: "笔记本导出失败",
	})
	ErrorImportFail = NewError(10100002, lang{
		en:    "Notebook import failed",
		zh_cn: "笔记本导入失败",
	})
	ErrorImportArchiveInvalid = NewError(10100003, lang{
		en:    "Import archive is invalid or too large",
		zh_cn: "导入压缩包无效或过大",
	})
	ErrorStorageFail = NewError(10100004, lang{
		en:    "Storage backend operation failed",
		zh_cn: "存储后端操作失败",
	})
)
